package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados del contrato.
// registrado: recién ingresado al sistema (ya ganado)
// pago_parcial: el cliente ha pagado parcialmente
// pagado: el cliente pagó el total (listo para liquidar comisiones)
// liquidado: las comisiones ya fueron pagadas a los empleados
// cancelado: contrato cancelado
const (
	EstadoRegistrado  = "registrado"
	EstadoPagoParcial = "pago_parcial"
	EstadoPagado      = "pagado"
	EstadoLiquidado   = "liquidado"
	EstadoCancelado   = "cancelado"
)

// Tipos de contrato.
const (
	TipoVentaDirecta = "venta_directa"
	TipoContrato     = "contrato"
	TipoProyecto     = "proyecto"
)

// Estados de la comisión de un participante.
const (
	ComisionPendiente = "pendiente"
	ComisionParcial   = "parcial"
	ComisionPagada    = "pagada"
)

// transiciones maps each contract state to the states it may legally move to.
// liquidado and cancelado are terminal.
var transiciones = map[string][]string{
	EstadoRegistrado:  {EstadoPagoParcial, EstadoPagado, EstadoCancelado},
	EstadoPagoParcial: {EstadoPagado, EstadoCancelado},
	EstadoPagado:      {EstadoLiquidado},
	EstadoLiquidado:   {},
	EstadoCancelado:   {},
}

// Contrato is the aggregate root for a sale/contract and its commissions.
type Contrato struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string     `gorm:"uniqueIndex;not null"`
	EmpresaID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo      string     `gorm:"type:varchar(20);not null"`

	ClienteNombre         string `gorm:"not null"`
	ClienteIdentificacion *string
	ClienteTelefono       *string
	ClienteEmail          *string

	Fecha            time.Time `gorm:"not null"`
	FechaVencimiento *time.Time
	Descripcion      *string
	Observaciones    *string

	MontoTotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Deducciones decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// MontoNeto = max(0, MontoTotal - Deducciones). Sobre este monto se
	// calculan TODAS las comisiones.
	MontoNeto   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	MontoPagado decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Estado string `gorm:"type:varchar(20);not null;default:'registrado';index"`

	TotalComisiones decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	MargenNeto      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Empresa          *Empresa       `gorm:"foreignKey:EmpresaID"`
	Participantes    []Participante `gorm:"foreignKey:ContratoID"`
	HistorialPagos   []PagoContrato `gorm:"foreignKey:ContratoID"`
	HistorialEstados []CambioEstado `gorm:"foreignKey:ContratoID"`
}

// Participante is one commission entry on a contract. The same employee may
// appear more than once (stacked commission types), so the row's own ID —
// never the employee's — identifies a participation.
type Participante struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	EmpleadoID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	TipoComisionID *uuid.UUID `gorm:"type:uuid;index"`
	// TipoComisionNombre is a snapshot for historical display; it survives the
	// type being renamed or deleted later.
	TipoComisionNombre string   `gorm:"not null;default:'Comisión Base'"`
	Comision           Comision `gorm:"embedded;embeddedPrefix:comision_"`
	UsaTipoPredefinido bool     `gorm:"not null;default:false"`

	// ComisionEstimada is the forecast over the full net amount; it is always
	// stored, even before any payment.
	ComisionEstimada decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// ComisionCalculada is the accrued ("real") amount: proportional to what
	// the client paid while the contract is in flight, the full estimate once
	// the contract is pagado/liquidado.
	ComisionCalculada decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	EstadoComision    string          `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	ComisionPagada    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ComisionPendiente decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	FechaPago         *time.Time
	LiquidacionID     *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Empleado       *Empleado      `gorm:"foreignKey:EmpleadoID"`
	HistorialPagos []PagoComision `gorm:"foreignKey:ParticipanteID"`
}

// SaldoPendiente is the settleable balance: accrued minus already paid.
func (p *Participante) SaldoPendiente() decimal.Decimal {
	return p.ComisionCalculada.Sub(p.ComisionPagada)
}

// PagoContrato is an immutable entry in a contract's client payment history.
type PagoContrato struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Metodo      string          `gorm:"type:varchar(20);not null"`
	Referencia  *string
	Observacion *string
	Fecha       time.Time `gorm:"not null"`
}

// CambioEstado is an audit entry for a contract state transition.
type CambioEstado struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContratoID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Estado      string    `gorm:"type:varchar(20);not null"`
	Observacion *string
	Fecha       time.Time `gorm:"not null"`
}

// PagoComision records one settlement payment made against a participation.
// Void settlements delete their entries so the history always mirrors the
// surviving settlements.
type PagoComision struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParticipanteID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	LiquidacionID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	LiquidacionCodigo string          `gorm:"not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Fecha             time.Time       `gorm:"not null"`
}

// PuedeTransicionar reports whether the transition table allows moving from the
// current state to nuevo.
func (c *Contrato) PuedeTransicionar(nuevo string) bool {
	for _, e := range transiciones[c.Estado] {
		if e == nuevo {
			return true
		}
	}
	return false
}

// Cerrado reports whether the contract is in a terminal state that rejects
// further mutation (payments, participants, edits).
func (c *Contrato) Cerrado() bool {
	return c.Estado == EstadoLiquidado || c.Estado == EstadoCancelado
}

// AgregarCambioEstado appends an audit entry for the state the contract is in.
func (c *Contrato) AgregarCambioEstado(estado, observacion string) {
	var obs *string
	if observacion != "" {
		obs = &observacion
	}
	c.HistorialEstados = append(c.HistorialEstados, CambioEstado{
		ContratoID:  c.ID,
		Estado:      estado,
		Observacion: obs,
		Fecha:       time.Now(),
	})
}

// RecalcularComisiones recomputes MontoNeto, every participant's estimated and
// accrued commission, TotalComisiones and MargenNeto.
//
// The base for all commission math is the NET amount (total minus deductions):
// deductions are real costs and must not inflate the commission base. While
// the contract is in flight the accrued amount follows the fraction of the net
// amount actually collected; once the contract is pagado or liquidado the
// accrued commission jumps to the full estimate. That jump is deliberate
// business policy — it also sidesteps the case where MontoPagado equals
// MontoNeto but a proportional recompute would land a rounding sliver short.
//
// This method is NOT triggered by field assignment. Every command that mutates
// MontoTotal, Deducciones, MontoPagado, Participantes or Estado must call it
// before persisting.
func (c *Contrato) RecalcularComisiones() {
	neto := c.MontoTotal.Sub(c.Deducciones)
	if neto.IsNegative() {
		neto = decimal.Zero
	}
	c.MontoNeto = neto

	uno := decimal.NewFromInt(1)
	proporcion := decimal.Zero
	if neto.IsPositive() {
		proporcion = c.MontoPagado.Div(neto)
		if proporcion.GreaterThan(uno) {
			proporcion = uno
		}
	}
	netoCobrado := neto.Mul(proporcion)

	total := decimal.Zero
	for i := range c.Participantes {
		p := &c.Participantes[i]

		estimada := p.Comision.Estimada(neto)
		var proporcional decimal.Decimal
		if p.Comision.Tipo == ComisionPorcentaje {
			proporcional = netoCobrado.Mul(p.Comision.Valor).Div(cien)
		} else {
			proporcional = p.Comision.Valor.Mul(proporcion)
		}

		p.ComisionEstimada = estimada
		if c.Estado == EstadoPagado || c.Estado == EstadoLiquidado {
			// Contrato pagado: la comisión es la estimada completa, no la
			// proporción cobrada.
			p.ComisionCalculada = estimada
		} else {
			p.ComisionCalculada = proporcional
		}
		p.ComisionPendiente = p.ComisionCalculada.Sub(p.ComisionPagada)

		total = total.Add(p.ComisionCalculada)
	}

	c.TotalComisiones = total
	c.MargenNeto = c.MontoPagado.Sub(total)
}
