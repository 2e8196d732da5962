package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ContratoFilter is bound from query string of GET /v1/contratos.
type ContratoFilter struct {
	Estado   string `form:"estado"`   // registrado | pago_parcial | pagado | liquidado | cancelado | all
	Tipo     string `form:"tipo"`     // venta_directa | contrato | proyecto
	Empleado string `form:"empleado"` // uuid: contratos donde participa
	Buscar   string `form:"buscar"`   // codigo o nombre de cliente
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ContratoListResponse struct {
	Data  []ContratoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ClienteRequest struct {
	Nombre         string  `json:"nombre"         validate:"required,min=2,max=200"`
	Identificacion *string `json:"identificacion" validate:"omitempty,max=50"`
	Telefono       *string `json:"telefono"       validate:"omitempty,max=30"`
	Email          *string `json:"email"          validate:"omitempty,email"`
}

type ComisionRequest struct {
	Tipo  string          `json:"tipo"  validate:"required,oneof=porcentaje fijo"`
	Valor decimal.Decimal `json:"valor" validate:"min=0"`
}

type ParticipanteRequest struct {
	EmpleadoID     string           `json:"empleado_id"      validate:"required,uuid"`
	TipoComisionID *string          `json:"tipo_comision_id" validate:"omitempty,uuid"`
	// Comision is required when no predefined type is referenced; ignored when
	// TipoComisionID is set (the template values are copied instead).
	Comision *ComisionRequest `json:"comision"         validate:"omitempty"`
}

type CrearContratoRequest struct {
	Codigo           *string               `json:"codigo"            validate:"omitempty,min=3,max=40"`
	EmpresaID        *string               `json:"empresa_id"        validate:"omitempty,uuid"`
	Tipo             string                `json:"tipo"              validate:"required,oneof=venta_directa contrato proyecto"`
	Cliente          ClienteRequest        `json:"cliente"           validate:"required"`
	Fecha            *string               `json:"fecha"             validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento *string               `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Descripcion      *string               `json:"descripcion"`
	Observaciones    *string               `json:"observaciones"`
	MontoTotal       decimal.Decimal       `json:"monto_total"       validate:"gt=0"`
	Deducciones      decimal.Decimal       `json:"deducciones"       validate:"min=0"`
	Participantes    []ParticipanteRequest `json:"participantes"     validate:"omitempty,dive"`
}

type ActualizarContratoRequest struct {
	Cliente          *ClienteRequest  `json:"cliente"`
	FechaVencimiento *string          `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Descripcion      *string          `json:"descripcion"`
	Observaciones    *string          `json:"observaciones"`
	MontoTotal       *decimal.Decimal `json:"monto_total"       validate:"omitempty,gt=0"`
	Deducciones      *decimal.Decimal `json:"deducciones"       validate:"omitempty,min=0"`
}

type CambiarEstadoRequest struct {
	Estado      string  `json:"estado"      validate:"required,oneof=registrado pago_parcial pagado liquidado cancelado"`
	Observacion *string `json:"observacion"`
}

type RegistrarPagoContratoRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Metodo      string          `json:"metodo"      validate:"required,oneof=efectivo transferencia cheque otro"`
	Referencia  *string         `json:"referencia"`
	Observacion *string         `json:"observacion"`
}

type VerificarCodigoRequest struct {
	Codigo string `json:"codigo" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	Nombre         string  `json:"nombre"`
	Identificacion *string `json:"identificacion"`
	Telefono       *string `json:"telefono"`
	Email          *string `json:"email"`
}

type ComisionResponse struct {
	Tipo  string          `json:"tipo"`
	Valor decimal.Decimal `json:"valor"`
}

type PagoComisionResponse struct {
	LiquidacionID     string          `json:"liquidacion_id"`
	LiquidacionCodigo string          `json:"liquidacion_codigo"`
	Monto             decimal.Decimal `json:"monto"`
	Fecha             string          `json:"fecha"`
}

type ParticipanteResponse struct {
	ID                 string                 `json:"id"`
	EmpleadoID         string                 `json:"empleado_id"`
	EmpleadoNombre     string                 `json:"empleado_nombre"`
	TipoComisionID     *string                `json:"tipo_comision_id"`
	TipoComisionNombre string                 `json:"tipo_comision_nombre"`
	Comision           ComisionResponse       `json:"comision"`
	ComisionEstimada   decimal.Decimal        `json:"comision_estimada"`
	ComisionCalculada  decimal.Decimal        `json:"comision_calculada"`
	ComisionPagada     decimal.Decimal        `json:"comision_pagada"`
	ComisionPendiente  decimal.Decimal        `json:"comision_pendiente"`
	EstadoComision     string                 `json:"estado_comision"`
	FechaPago          *string                `json:"fecha_pago"`
	LiquidacionID      *string                `json:"liquidacion_id"`
	HistorialPagos     []PagoComisionResponse `json:"historial_pagos"`
}

type PagoContratoResponse struct {
	ID          string          `json:"id"`
	Monto       decimal.Decimal `json:"monto"`
	Metodo      string          `json:"metodo"`
	Referencia  *string         `json:"referencia"`
	Observacion *string         `json:"observacion"`
	Fecha       string          `json:"fecha"`
}

type CambioEstadoResponse struct {
	Estado      string  `json:"estado"`
	Observacion *string `json:"observacion"`
	Fecha       string  `json:"fecha"`
}

type ContratoResponse struct {
	ID               string                 `json:"id"`
	Codigo           string                 `json:"codigo"`
	EmpresaID        *string                `json:"empresa_id"`
	Tipo             string                 `json:"tipo"`
	Cliente          ClienteResponse        `json:"cliente"`
	Fecha            string                 `json:"fecha"`
	FechaVencimiento *string                `json:"fecha_vencimiento"`
	Descripcion      *string                `json:"descripcion"`
	Observaciones    *string                `json:"observaciones"`
	MontoTotal       decimal.Decimal        `json:"monto_total"`
	Deducciones      decimal.Decimal        `json:"deducciones"`
	MontoNeto        decimal.Decimal        `json:"monto_neto"`
	MontoPagado      decimal.Decimal        `json:"monto_pagado"`
	SaldoPendiente   decimal.Decimal        `json:"saldo_pendiente"`
	Estado           string                 `json:"estado"`
	TotalComisiones  decimal.Decimal        `json:"total_comisiones"`
	MargenNeto       decimal.Decimal        `json:"margen_neto"`
	Participantes    []ParticipanteResponse `json:"participantes"`
	HistorialPagos   []PagoContratoResponse `json:"historial_pagos"`
	HistorialEstados []CambioEstadoResponse `json:"historial_estados"`
	CreatedAt        string                 `json:"created_at"`
	UpdatedAt        string                 `json:"updated_at"`
}

type CodigoResponse struct {
	Codigo string `json:"codigo"`
}

type VerificarCodigoResponse struct {
	Codigo     string `json:"codigo"`
	Disponible bool   `json:"disponible"`
}
