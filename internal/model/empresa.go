package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the issuing company whose identity appears on settlement
// receipts. Several can coexist; one is marked predeterminada.
type Empresa struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string    `gorm:"not null"`
	Identificacion *string
	Telefono       *string
	Email          *string
	Direccion      *string
	Predeterminada bool `gorm:"not null;default:false"`
	Activa         bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
