package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una liquidación.
const (
	LiquidacionActiva  = "activa"
	LiquidacionAnulada = "anulada"
)

// Métodos de pago aceptados en liquidaciones y pagos de contrato.
const (
	MetodoEfectivo      = "efectivo"
	MetodoTransferencia = "transferencia"
	MetodoCheque        = "cheque"
	MetodoOtro          = "otro"
)

// PagoLiquidacion describes how a settlement was paid out.
type PagoLiquidacion struct {
	Metodo     string `gorm:"type:varchar(20);not null;default:'efectivo'"`
	Referencia *string
	Notas      *string
}

// EmpresaSnapshot freezes the issuing company's identity on the settlement so
// the receipt stays correct even if the company record changes later.
type EmpresaSnapshot struct {
	Nombre         *string
	Identificacion *string
	Telefono       *string
	Direccion      *string
}

// Liquidacion is a settlement document: a batch payment of commissions to one
// employee, covering one or more contract participations.
type Liquidacion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo     string    `gorm:"uniqueIndex;not null"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Fecha      time.Time `gorm:"not null"`

	Total decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Pago    PagoLiquidacion `gorm:"embedded;embeddedPrefix:pago_"`
	Empresa EmpresaSnapshot `gorm:"embedded;embeddedPrefix:empresa_"`

	Estado         string `gorm:"type:varchar(20);not null;default:'activa';index"`
	AnulacionFecha *time.Time
	AnulacionMotivo *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Empleado *Empleado            `gorm:"foreignKey:EmpleadoID"`
	Detalles []LiquidacionDetalle `gorm:"foreignKey:LiquidacionID"`
}

// Anulada reports whether the settlement has been voided.
func (l *Liquidacion) Anulada() bool {
	return l.Estado == LiquidacionAnulada
}

// LiquidacionDetalle is one line of a settlement: what was paid for one
// participation of one contract. Amounts and names are snapshots.
type LiquidacionDetalle struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LiquidacionID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ContratoID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ParticipanteID uuid.UUID `gorm:"type:uuid;index;not null"`

	ContratoCodigo string `gorm:"not null"`
	ClienteNombre  string `gorm:"not null"`
	TipoComision   string `gorm:"not null"`

	ComisionTotal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// MontoPagado is what THIS settlement paid on the line; with partial
	// settlements it can be less than ComisionTotal.
	MontoPagado    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PagoParcial    bool            `gorm:"not null;default:false"`

	PagosPrevios []PagoPrevio `gorm:"foreignKey:DetalleID"`
}

// PagoPrevio is a snapshot of an earlier settlement payment on the same
// participation, captured so the receipt can show the running history.
type PagoPrevio struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DetalleID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	LiquidacionCodigo string          `gorm:"not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Fecha             time.Time       `gorm:"not null"`
}
