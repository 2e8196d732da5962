package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumenResponse is the dashboard headline: global money and contract totals.
type ResumenResponse struct {
	TotalContratos       int64           `json:"total_contratos"`
	ContratosActivos     int64           `json:"contratos_activos"`
	ContratosLiquidados  int64           `json:"contratos_liquidados"`
	ContratosCancelados  int64           `json:"contratos_cancelados"`
	MontoTotal           decimal.Decimal `json:"monto_total"`
	MontoPagado          decimal.Decimal `json:"monto_pagado"`
	MontoPendiente       decimal.Decimal `json:"monto_pendiente"`
	ComisionesGeneradas  decimal.Decimal `json:"comisiones_generadas"`
	ComisionesPagadas    decimal.Decimal `json:"comisiones_pagadas"`
	ComisionesPendientes decimal.Decimal `json:"comisiones_pendientes"`
	MargenNeto           decimal.Decimal `json:"margen_neto"`
}

// ConsolidadoEmpleadoItem is one row of the per-employee commission report.
type ConsolidadoEmpleadoItem struct {
	EmpleadoID           string          `json:"empleado_id"`
	Codigo               string          `json:"codigo"`
	Nombre               string          `json:"nombre"`
	Cargo                *string         `json:"cargo"`
	ContratosAsociados   int             `json:"contratos_asociados"`
	ComisionesGeneradas  decimal.Decimal `json:"comisiones_generadas"`
	ComisionesPagadas    decimal.Decimal `json:"comisiones_pagadas"`
	ComisionesPendientes decimal.Decimal `json:"comisiones_pendientes"`
}

type ConsolidadoEmpleadosResponse struct {
	Data []ConsolidadoEmpleadoItem `json:"data"`
}

// ConsolidadoContratoItem is one row of the per-contract financial report.
type ConsolidadoContratoItem struct {
	ContratoID      string          `json:"contrato_id"`
	Codigo          string          `json:"codigo"`
	ClienteNombre   string          `json:"cliente_nombre"`
	Estado          string          `json:"estado"`
	MontoTotal      decimal.Decimal `json:"monto_total"`
	MontoNeto       decimal.Decimal `json:"monto_neto"`
	MontoPagado     decimal.Decimal `json:"monto_pagado"`
	TotalComisiones decimal.Decimal `json:"total_comisiones"`
	MargenNeto      decimal.Decimal `json:"margen_neto"`
}

type ConsolidadoContratosResponse struct {
	Data []ConsolidadoContratoItem `json:"data"`
}

// HistorialLiquidacionItem is one row of the settlement history report.
type HistorialLiquidacionItem struct {
	LiquidacionID  string          `json:"liquidacion_id"`
	Codigo         string          `json:"codigo"`
	EmpleadoNombre string          `json:"empleado_nombre"`
	Fecha          string          `json:"fecha"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	Contratos      int             `json:"contratos"`
}

type HistorialLiquidacionesResponse struct {
	Data []HistorialLiquidacionItem `json:"data"`
}
