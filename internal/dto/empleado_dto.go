package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type EmpleadoFilter struct {
	Activo string `form:"activo,default=true"` // true | false | all
	Buscar string `form:"buscar"`
	Page   int    `form:"page,default=1"    validate:"min=1"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type EmpleadoListResponse struct {
	Data  []EmpleadoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEmpleadoRequest struct {
	Codigo         *string `json:"codigo"         validate:"omitempty,min=3,max=40"`
	Nombre         string  `json:"nombre"         validate:"required,min=2,max=150"`
	Identificacion string  `json:"identificacion" validate:"required,min=3,max=30"`
	Cargo          *string `json:"cargo"          validate:"omitempty,max=100"`
	Email          *string `json:"email"          validate:"omitempty,email"`
	Telefono       *string `json:"telefono"       validate:"omitempty,max=30"`
	// ComisionBase defaults to porcentaje 0 when omitted.
	ComisionBase *ComisionRequest `json:"comision_base" validate:"omitempty"`
}

type ActualizarEmpleadoRequest struct {
	Nombre         string           `json:"nombre"         validate:"omitempty,min=2,max=150"`
	Identificacion *string          `json:"identificacion" validate:"omitempty,min=3,max=30"`
	Cargo          *string          `json:"cargo"          validate:"omitempty,max=100"`
	Email          *string          `json:"email"          validate:"omitempty,email"`
	Telefono       *string          `json:"telefono"       validate:"omitempty,max=30"`
	ComisionBase   *ComisionRequest `json:"comision_base"  validate:"omitempty"`
	Activo         *bool            `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EstadisticasResponse struct {
	TotalGeneradas     decimal.Decimal `json:"total_generadas"`
	TotalPagadas       decimal.Decimal `json:"total_pagadas"`
	TotalPendientes    decimal.Decimal `json:"total_pendientes"`
	ContratosAsociados int             `json:"contratos_asociados"`
}

type EmpleadoResponse struct {
	ID             string               `json:"id"`
	Codigo         string               `json:"codigo"`
	Nombre         string               `json:"nombre"`
	Identificacion string               `json:"identificacion"`
	Cargo          *string              `json:"cargo"`
	Email          *string              `json:"email"`
	Telefono       *string              `json:"telefono"`
	Activo         bool                 `json:"activo"`
	ComisionBase   ComisionResponse     `json:"comision_base"`
	Estadisticas   EstadisticasResponse `json:"estadisticas"`
	CreatedAt      string               `json:"created_at"`
}

// ComisionEmpleadoItem is one row of an employee's commission ledger:
// a participation of theirs on some contract, with its payment state.
type ComisionEmpleadoItem struct {
	ContratoID         string          `json:"contrato_id"`
	ContratoCodigo     string          `json:"contrato_codigo"`
	ClienteNombre      string          `json:"cliente_nombre"`
	ContratoEstado     string          `json:"contrato_estado"`
	ParticipanteID     string          `json:"participante_id"`
	TipoComisionNombre string          `json:"tipo_comision_nombre"`
	ComisionEstimada   decimal.Decimal `json:"comision_estimada"`
	ComisionCalculada  decimal.Decimal `json:"comision_calculada"`
	ComisionPagada     decimal.Decimal `json:"comision_pagada"`
	ComisionPendiente  decimal.Decimal `json:"comision_pendiente"`
	EstadoComision     string          `json:"estado_comision"`
	FechaPago          *string         `json:"fecha_pago"`
}

type ComisionesEmpleadoResponse struct {
	Empleado   EmpleadoResponse       `json:"empleado"`
	Comisiones []ComisionEmpleadoItem `json:"comisiones"`
}
