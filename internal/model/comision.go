package model

import "github.com/shopspring/decimal"

// Tipos de cálculo de comisión.
const (
	ComisionPorcentaje = "porcentaje"
	ComisionFija       = "fijo"
)

// Comision is the value object that configures how a commission is computed.
// Tipo: "porcentaje" (Valor is a percentage over the net amount) | "fijo"
// (Valor is an absolute amount). Valor is never negative.
type Comision struct {
	Tipo  string          `gorm:"type:varchar(20);not null"`
	Valor decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// Estimada returns the commission owed if the full net amount is collected.
func (c Comision) Estimada(montoNeto decimal.Decimal) decimal.Decimal {
	if c.Tipo == ComisionPorcentaje {
		return montoNeto.Mul(c.Valor).Div(cien)
	}
	return c.Valor
}

var cien = decimal.NewFromInt(100)
