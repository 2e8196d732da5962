package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type LiquidacionFilter struct {
	Estado   string `form:"estado,default=all"` // activa | anulada | all
	Empleado string `form:"empleado"`           // uuid
	Desde    string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta    string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type LiquidacionListResponse struct {
	Data  []LiquidacionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaLiquidacionRequest selects one participation to settle. Monto, when
// present, pays part of the pending balance; absent means pay it in full.
type LineaLiquidacionRequest struct {
	ContratoID     string           `json:"contrato_id"     validate:"required,uuid"`
	ParticipanteID string           `json:"participante_id" validate:"required,uuid"`
	Monto          *decimal.Decimal `json:"monto"           validate:"omitempty,gt=0"`
}

type PagoLiquidacionRequest struct {
	Metodo     string  `json:"metodo"     validate:"required,oneof=efectivo transferencia cheque otro"`
	Referencia *string `json:"referencia"`
	Notas      *string `json:"notas"`
}

type CrearLiquidacionRequest struct {
	EmpleadoID string                    `json:"empleado_id" validate:"required,uuid"`
	EmpresaID  *string                   `json:"empresa_id"  validate:"omitempty,uuid"`
	Lineas     []LineaLiquidacionRequest `json:"lineas"      validate:"required,min=1,dive"`
	Pago       PagoLiquidacionRequest    `json:"pago"        validate:"required"`
	Fecha      *string                   `json:"fecha"       validate:"omitempty,datetime=2006-01-02"`
}

type AnularLiquidacionRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoPrevioResponse struct {
	LiquidacionCodigo string          `json:"liquidacion_codigo"`
	Monto             decimal.Decimal `json:"monto"`
	Fecha             string          `json:"fecha"`
}

type DetalleLiquidacionResponse struct {
	ContratoID     string               `json:"contrato_id"`
	ParticipanteID string               `json:"participante_id"`
	ContratoCodigo string               `json:"contrato_codigo"`
	ClienteNombre  string               `json:"cliente_nombre"`
	TipoComision   string               `json:"tipo_comision"`
	ComisionTotal  decimal.Decimal      `json:"comision_total"`
	MontoPagado    decimal.Decimal      `json:"monto_pagado"`
	SaldoPendiente decimal.Decimal      `json:"saldo_pendiente"`
	PagoParcial    bool                 `json:"pago_parcial"`
	PagosPrevios   []PagoPrevioResponse `json:"pagos_previos"`
}

type EmpresaSnapshotResponse struct {
	Nombre         *string `json:"nombre"`
	Identificacion *string `json:"identificacion"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
}

type LiquidacionResponse struct {
	ID              string                       `json:"id"`
	Codigo          string                       `json:"codigo"`
	EmpleadoID      string                       `json:"empleado_id"`
	EmpleadoNombre  string                       `json:"empleado_nombre"`
	Fecha           string                       `json:"fecha"`
	Total           decimal.Decimal              `json:"total"`
	Metodo          string                       `json:"metodo"`
	Referencia      *string                      `json:"referencia"`
	Notas           *string                      `json:"notas"`
	Empresa         EmpresaSnapshotResponse      `json:"empresa"`
	Estado          string                       `json:"estado"`
	AnulacionFecha  *string                      `json:"anulacion_fecha"`
	AnulacionMotivo *string                      `json:"anulacion_motivo"`
	Detalles        []DetalleLiquidacionResponse `json:"detalles"`
	CreatedAt       string                       `json:"created_at"`
}

// PendientePorEmpleadoItem summarizes what one employee is owed, for building
// a settlement.
type PendientePorEmpleadoItem struct {
	Empleado       EmpleadoResponse       `json:"empleado"`
	TotalPendiente decimal.Decimal        `json:"total_pendiente"`
	Comisiones     []ComisionEmpleadoItem `json:"comisiones"`
}

type PendientesResponse struct {
	Data []PendientePorEmpleadoItem `json:"data"`
}

type RecalcularEstadisticasResponse struct {
	EmpleadosActualizados int `json:"empleados_actualizados"`
}
