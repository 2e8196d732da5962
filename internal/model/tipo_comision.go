package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TipoComision is a reusable commission template. Contracts copy its values at
// the moment a participant is added; later edits never touch existing
// contracts.
type TipoComision struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Tipo        string          `gorm:"type:varchar(20);not null"`
	Valor       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// AplicaA restringe el tipo a ciertas clases de contrato
	// (venta_directa, contrato, proyecto); vacío = todas.
	AplicaA pq.StringArray `gorm:"type:text[]"`
	Color   *string        `gorm:"type:varchar(20)"`
	Activo  bool           `gorm:"not null;default:true"`
	Orden   int            `gorm:"not null;default:0;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AplicaATipoContrato reports whether the template can be attached to a
// contract of the given kind.
func (t *TipoComision) AplicaATipoContrato(tipoContrato string) bool {
	if len(t.AplicaA) == 0 {
		return true
	}
	for _, tc := range t.AplicaA {
		if tc == tipoContrato {
			return true
		}
	}
	return false
}
