package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estadisticas is the per-employee commission counter block. It is an
// acceleration cache derived from the contracts the employee participates in;
// RecalcularEstadisticas can rebuild it from scratch at any time.
type Estadisticas struct {
	// TotalGeneradas acumula las comisiones devengadas desde que los contratos
	// llegan a pagado; no baja cuando se liquida.
	TotalGeneradas decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// TotalPagadas es lo efectivamente liquidado al empleado.
	TotalPagadas decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// TotalPendientes es lo devengado aún no liquidado.
	TotalPendientes decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// ContratosAsociados cuenta contratos pagados/liquidados en los que
	// participa, no participaciones.
	ContratosAsociados int `gorm:"not null;default:0"`
}

// Empleado is a commission beneficiary.
type Empleado struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Nombre         string    `gorm:"not null"`
	Identificacion string    `gorm:"uniqueIndex;not null"`
	Cargo          *string
	Email          *string
	Telefono       *string
	Activo         bool `gorm:"not null;default:true"`

	// ComisionBase es la política por defecto del empleado: se copia al
	// participante cuando el contrato no indica tipo ni comisión manual.
	ComisionBase Comision     `gorm:"embedded;embeddedPrefix:base_"`
	Estadisticas Estadisticas `gorm:"embedded;embeddedPrefix:stats_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComisionPorDefecto normaliza la política base: un empleado que nunca la
// configuró equivale a porcentaje 0.
func (e *Empleado) ComisionPorDefecto() Comision {
	if e.ComisionBase.Tipo == "" {
		return Comision{Tipo: ComisionPorcentaje, Valor: decimal.Zero}
	}
	return e.ComisionBase
}
