package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearTipoComisionRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=2,max=100"`
	Descripcion *string         `json:"descripcion" validate:"omitempty,max=300"`
	Tipo        string          `json:"tipo"        validate:"required,oneof=porcentaje fijo"`
	Valor       decimal.Decimal `json:"valor"       validate:"min=0"`
	AplicaA     []string        `json:"aplica_a"    validate:"omitempty,dive,oneof=venta_directa contrato proyecto"`
	Color       *string         `json:"color"       validate:"omitempty,max=20"`
}

type ActualizarTipoComisionRequest struct {
	Nombre      string           `json:"nombre"      validate:"omitempty,min=2,max=100"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=300"`
	Tipo        string           `json:"tipo"        validate:"omitempty,oneof=porcentaje fijo"`
	Valor       *decimal.Decimal `json:"valor"       validate:"omitempty,min=0"`
	AplicaA     []string         `json:"aplica_a"    validate:"omitempty,dive,oneof=venta_directa contrato proyecto"`
	Color       *string          `json:"color"       validate:"omitempty,max=20"`
	Activo      *bool            `json:"activo"`
}

// ReordenarTiposRequest fixes the display order: IDs listed first to last.
type ReordenarTiposRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TipoComisionResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Tipo        string          `json:"tipo"`
	Valor       decimal.Decimal `json:"valor"`
	AplicaA     []string        `json:"aplica_a"`
	Color       *string         `json:"color"`
	Activo      bool            `json:"activo"`
	Orden       int             `json:"orden"`
}
