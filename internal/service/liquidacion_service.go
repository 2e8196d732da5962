package service

import (
	"context"
	"fmt"
	"time"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"
	"commet/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LiquidacionService interface {
	Crear(ctx context.Context, req dto.CrearLiquidacionRequest) (*dto.LiquidacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error)
	Listar(ctx context.Context, filter dto.LiquidacionFilter) (*dto.LiquidacionListResponse, error)
	Anular(ctx context.Context, id uuid.UUID, motivo string) (*dto.LiquidacionResponse, error)
	Comprobante(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error)
	PendientesPorEmpleado(ctx context.Context) (*dto.PendientesResponse, error)
	RecalcularEstadisticas(ctx context.Context) (*dto.RecalcularEstadisticasResponse, error)
}

type liquidacionService struct {
	repo         repository.LiquidacionRepository
	contratoRepo repository.ContratoRepository
	empleadoRepo repository.EmpleadoRepository
	empresaRepo  repository.EmpresaRepository
	dispatcher   *worker.Dispatcher
}

func NewLiquidacionService(
	repo repository.LiquidacionRepository,
	contratoRepo repository.ContratoRepository,
	empleadoRepo repository.EmpleadoRepository,
	empresaRepo repository.EmpresaRepository,
	dispatcher *worker.Dispatcher,
) LiquidacionService {
	return &liquidacionService{
		repo:         repo,
		contratoRepo: contratoRepo,
		empleadoRepo: empleadoRepo,
		empresaRepo:  empresaRepo,
		dispatcher:   dispatcher,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. resolve employee, company snapshot and every referenced contract
//  2. per line: validate the participation, compute the payable amount,
//     snapshot previous payments, update the participation
//  3. contracts whose participations are all fully paid move to liquidado
//  4. persist settlement + contracts + employee counters, all or nothing
//
// The settlement ID is generated up front so participation payment-history
// rows can reference it inside the same pass.

func (s *liquidacionService) Crear(ctx context.Context, req dto.CrearLiquidacionRequest) (*dto.LiquidacionResponse, error) {
	empleadoID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return nil, apierror.Invalid("empleado_id inválido")
	}
	empleado, err := s.empleadoRepo.FindByID(ctx, empleadoID)
	if err != nil {
		return nil, apierror.NotFound("empleado no encontrado")
	}

	fecha := time.Now()
	if req.Fecha != nil {
		if f, perr := time.Parse("2006-01-02", *req.Fecha); perr == nil {
			fecha = f
		}
	}

	empresa := s.resolverEmpresa(ctx, req.EmpresaID)

	liquidacion := model.Liquidacion{
		ID:         uuid.New(),
		EmpleadoID: empleadoID,
		Fecha:      fecha,
		Pago: model.PagoLiquidacion{
			Metodo:     req.Pago.Metodo,
			Referencia: req.Pago.Referencia,
			Notas:      req.Pago.Notas,
		},
		Empresa: empresa,
		Estado:  model.LiquidacionActiva,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		codigo, err := s.repo.NextCodigo(ctx, tx)
		if err != nil {
			return err
		}
		liquidacion.Codigo = codigo

		// Group lines by contract so each aggregate is loaded and saved once.
		porContrato := make(map[uuid.UUID][]dto.LineaLiquidacionRequest)
		orden := make([]uuid.UUID, 0, len(req.Lineas))
		for _, linea := range req.Lineas {
			cid, err := uuid.Parse(linea.ContratoID)
			if err != nil {
				return apierror.Invalid("contrato_id inválido")
			}
			if _, visto := porContrato[cid]; !visto {
				orden = append(orden, cid)
			}
			porContrato[cid] = append(porContrato[cid], linea)
		}

		total := decimal.Zero
		for _, cid := range orden {
			contrato, err := s.contratoRepo.FindByIDTx(ctx, tx, cid)
			if err != nil {
				return apierror.NotFound(fmt.Sprintf("contrato %s no encontrado", cid))
			}
			if contrato.Estado != model.EstadoPagado {
				return apierror.NewKind(apierror.KindContratoNoPagado,
					fmt.Sprintf("el contrato %s está %s; solo se liquidan contratos pagados",
						contrato.Codigo, contrato.Estado))
			}

			for _, linea := range porContrato[cid] {
				pid, err := uuid.Parse(linea.ParticipanteID)
				if err != nil {
					return apierror.Invalid("participante_id inválido")
				}
				monto, err := s.liquidarLinea(&liquidacion, contrato, pid, empleadoID, linea.Monto, fecha)
				if err != nil {
					return err
				}
				total = total.Add(monto)
			}

			if todasPagadas(contrato) {
				contrato.Estado = model.EstadoLiquidado
				contrato.AgregarCambioEstado(model.EstadoLiquidado,
					fmt.Sprintf("Comisiones liquidadas (%s)", liquidacion.Codigo))
				contrato.RecalcularComisiones()
			}
			if err := s.contratoRepo.Save(ctx, tx, contrato); err != nil {
				return err
			}
		}

		if !total.IsPositive() {
			return apierror.NewKind(apierror.KindNadaPorLiquidar,
				"ninguna línea tiene comisión pendiente por liquidar")
		}
		liquidacion.Total = total

		empleado.Estadisticas.TotalPagadas = empleado.Estadisticas.TotalPagadas.Add(total)
		empleado.Estadisticas.TotalPendientes = empleado.Estadisticas.TotalPendientes.Sub(total)
		if err := s.empleadoRepo.Save(ctx, tx, empleado); err != nil {
			return err
		}

		return s.repo.Create(ctx, tx, &liquidacion)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("liquidacion", liquidacion.Codigo).Str("empleado", empleado.Nombre).
		Str("total", liquidacion.Total.String()).Msg("liquidación creada")

	// Receipt PDF (and optional email) is generated off the request path.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueComprobante(ctx, map[string]interface{}{
			"liquidacion_id": liquidacion.ID.String(),
		})
	}

	creada, err := s.repo.FindByID(ctx, liquidacion.ID)
	if err != nil {
		liquidacion.Empleado = empleado
		return liquidacionToResponse(&liquidacion), nil
	}
	return liquidacionToResponse(creada), nil
}

// liquidarLinea settles one participation: computes the payable amount,
// snapshots its prior payments and mutates the participation in place.
// Lines pointing at a missing participation, an already-paid one, or a zero
// balance are an intentional filter: they return zero without error so the
// rest of the request still settles. Only when no line at all qualifies does
// Crear reject the request with NadaPorLiquidar.
func (s *liquidacionService) liquidarLinea(
	l *model.Liquidacion,
	contrato *model.Contrato,
	participanteID, empleadoID uuid.UUID,
	montoSolicitado *decimal.Decimal,
	fecha time.Time,
) (decimal.Decimal, error) {
	var p *model.Participante
	for i := range contrato.Participantes {
		if contrato.Participantes[i].ID == participanteID {
			p = &contrato.Participantes[i]
			break
		}
	}
	if p == nil {
		log.Debug().Str("contrato", contrato.Codigo).Str("participante", participanteID.String()).
			Msg("liquidación: participante inexistente, línea omitida")
		return decimal.Zero, nil
	}
	if p.EmpleadoID != empleadoID {
		return decimal.Zero, apierror.Invalid(
			fmt.Sprintf("el participante en %s pertenece a otro empleado", contrato.Codigo))
	}

	saldo := p.SaldoPendiente()
	if !saldo.IsPositive() {
		log.Debug().Str("contrato", contrato.Codigo).Str("participante", participanteID.String()).
			Msg("liquidación: sin saldo pendiente, línea omitida")
		return decimal.Zero, nil
	}

	monto := saldo
	if montoSolicitado != nil && montoSolicitado.LessThan(saldo) {
		monto = *montoSolicitado
	}
	if !monto.IsPositive() {
		return decimal.Zero, nil
	}

	// Snapshot previous payments before appending this one.
	previos := make([]model.PagoPrevio, 0, len(p.HistorialPagos))
	for _, pc := range p.HistorialPagos {
		previos = append(previos, model.PagoPrevio{
			LiquidacionCodigo: pc.LiquidacionCodigo,
			Monto:             pc.Monto,
			Fecha:             pc.Fecha,
		})
	}

	p.ComisionPagada = p.ComisionPagada.Add(monto)
	p.ComisionPendiente = p.ComisionCalculada.Sub(p.ComisionPagada)
	p.HistorialPagos = append(p.HistorialPagos, model.PagoComision{
		ParticipanteID:    p.ID,
		LiquidacionID:     l.ID,
		LiquidacionCodigo: l.Codigo,
		Monto:             monto,
		Fecha:             fecha,
	})

	parcial := p.ComisionPendiente.IsPositive()
	if parcial {
		p.EstadoComision = model.ComisionParcial
	} else {
		p.EstadoComision = model.ComisionPagada
		t := fecha
		p.FechaPago = &t
		lid := l.ID
		p.LiquidacionID = &lid
	}

	l.Detalles = append(l.Detalles, model.LiquidacionDetalle{
		LiquidacionID:  l.ID,
		ContratoID:     contrato.ID,
		ParticipanteID: p.ID,
		ContratoCodigo: contrato.Codigo,
		ClienteNombre:  contrato.ClienteNombre,
		TipoComision:   p.TipoComisionNombre,
		ComisionTotal:  p.ComisionCalculada,
		MontoPagado:    monto,
		SaldoPendiente: p.ComisionPendiente,
		PagoParcial:    parcial,
		PagosPrevios:   previos,
	})
	return monto, nil
}

func todasPagadas(c *model.Contrato) bool {
	for i := range c.Participantes {
		if c.Participantes[i].EstadoComision != model.ComisionPagada {
			return false
		}
	}
	return len(c.Participantes) > 0
}

func (s *liquidacionService) resolverEmpresa(ctx context.Context, empresaID *string) model.EmpresaSnapshot {
	var e *model.Empresa
	if empresaID != nil {
		if eid, perr := uuid.Parse(*empresaID); perr == nil {
			if encontrada, ferr := s.empresaRepo.FindByID(ctx, eid); ferr == nil {
				e = encontrada
			}
		}
	}
	if e == nil {
		if predeterminada, ferr := s.empresaRepo.FindPredeterminada(ctx); ferr == nil {
			e = predeterminada
		}
	}
	if e == nil {
		return model.EmpresaSnapshot{}
	}
	return model.EmpresaSnapshot{
		Nombre:         &e.Nombre,
		Identificacion: e.Identificacion,
		Telefono:       e.Telefono,
		Direccion:      e.Direccion,
	}
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *liquidacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("liquidación no encontrada")
	}
	return liquidacionToResponse(l), nil
}

// Comprobante loads the full settlement for receipt rendering.
func (s *liquidacionService) Comprobante(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("liquidación no encontrada")
	}
	return l, nil
}

func (s *liquidacionService) Listar(ctx context.Context, filter dto.LiquidacionFilter) (*dto.LiquidacionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	liquidaciones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LiquidacionResponse, 0, len(liquidaciones))
	for i := range liquidaciones {
		data = append(data, *liquidacionToResponse(&liquidaciones[i]))
	}
	return &dto.LiquidacionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// The exact inverse of Crear: paid amounts return to pending, payment history
// rows written by this settlement disappear, contracts that became liquidado
// step back to pagado, and the employee counters reverse.

func (s *liquidacionService) Anular(ctx context.Context, id uuid.UUID, motivo string) (*dto.LiquidacionResponse, error) {
	if motivo == "" {
		return nil, apierror.NewKind(apierror.KindMotivoRequerido,
			"anular una liquidación exige un motivo")
	}
	liquidacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("liquidación no encontrada")
	}
	if liquidacion.Anulada() {
		return nil, apierror.NewKind(apierror.KindYaAnulada, "la liquidación ya está anulada")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		porContrato := make(map[uuid.UUID][]model.LiquidacionDetalle)
		orden := make([]uuid.UUID, 0, len(liquidacion.Detalles))
		for _, d := range liquidacion.Detalles {
			if _, visto := porContrato[d.ContratoID]; !visto {
				orden = append(orden, d.ContratoID)
			}
			porContrato[d.ContratoID] = append(porContrato[d.ContratoID], d)
		}

		if err := s.contratoRepo.DeletePagosComision(ctx, tx, liquidacion.ID); err != nil {
			return err
		}

		for _, cid := range orden {
			contrato, err := s.contratoRepo.FindByIDTx(ctx, tx, cid)
			if err != nil {
				return fmt.Errorf("contrato %s: %w", cid, err)
			}
			for _, d := range porContrato[cid] {
				for i := range contrato.Participantes {
					p := &contrato.Participantes[i]
					if p.ID != d.ParticipanteID {
						continue
					}
					p.ComisionPagada = p.ComisionPagada.Sub(d.MontoPagado)
					if p.ComisionPagada.IsNegative() {
						p.ComisionPagada = decimal.Zero
					}
					p.ComisionPendiente = p.ComisionCalculada.Sub(p.ComisionPagada)
					if p.ComisionPagada.IsPositive() {
						p.EstadoComision = model.ComisionParcial
					} else {
						p.EstadoComision = model.ComisionPendiente
					}
					if p.LiquidacionID != nil && *p.LiquidacionID == liquidacion.ID {
						p.LiquidacionID = nil
						p.FechaPago = nil
					}
					break
				}
			}
			if contrato.Estado == model.EstadoLiquidado {
				contrato.Estado = model.EstadoPagado
				contrato.AgregarCambioEstado(model.EstadoPagado,
					fmt.Sprintf("Liquidación %s anulada: %s", liquidacion.Codigo, motivo))
				contrato.RecalcularComisiones()
			}
			if err := s.contratoRepo.Save(ctx, tx, contrato); err != nil {
				return err
			}
		}

		empleado, err := s.empleadoRepo.FindByIDTx(ctx, tx, liquidacion.EmpleadoID)
		if err == nil {
			empleado.Estadisticas.TotalPagadas = empleado.Estadisticas.TotalPagadas.Sub(liquidacion.Total)
			empleado.Estadisticas.TotalPendientes = empleado.Estadisticas.TotalPendientes.Add(liquidacion.Total)
			if err := s.empleadoRepo.Save(ctx, tx, empleado); err != nil {
				return err
			}
		}

		now := time.Now()
		liquidacion.Estado = model.LiquidacionAnulada
		liquidacion.AnulacionFecha = &now
		liquidacion.AnulacionMotivo = &motivo
		return s.repo.Save(ctx, tx, liquidacion)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Warn().Str("liquidacion", liquidacion.Codigo).Str("motivo", motivo).
		Msg("liquidación anulada")
	return liquidacionToResponse(liquidacion), nil
}

// ── PendientesPorEmpleado ─────────────────────────────────────────────────────

// PendientesPorEmpleado lists, per active employee, every settleable
// participation (paid contracts with pending balance) and the owed total.
func (s *liquidacionService) PendientesPorEmpleado(ctx context.Context) (*dto.PendientesResponse, error) {
	lista, _, err := s.empleadoRepo.List(ctx, dto.EmpleadoFilter{Activo: "true", Page: 1, Limit: 500})
	if err != nil {
		return nil, err
	}

	resp := &dto.PendientesResponse{Data: []dto.PendientePorEmpleadoItem{}}
	for i := range lista {
		emp := &lista[i]
		contratos, err := s.contratoRepo.ListByEmpleado(ctx, emp.ID)
		if err != nil {
			return nil, err
		}
		item := dto.PendientePorEmpleadoItem{
			Empleado:       *empleadoToResponse(emp),
			TotalPendiente: decimal.Zero,
			Comisiones:     []dto.ComisionEmpleadoItem{},
		}
		for j := range contratos {
			c := &contratos[j]
			if c.Estado != model.EstadoPagado {
				continue
			}
			for k := range c.Participantes {
				p := &c.Participantes[k]
				if p.EmpleadoID != emp.ID || !p.SaldoPendiente().IsPositive() {
					continue
				}
				item.TotalPendiente = item.TotalPendiente.Add(p.SaldoPendiente())
				item.Comisiones = append(item.Comisiones, comisionItem(c, p))
			}
		}
		if len(item.Comisiones) > 0 {
			resp.Data = append(resp.Data, item)
		}
	}
	return resp, nil
}

func comisionItem(c *model.Contrato, p *model.Participante) dto.ComisionEmpleadoItem {
	return dto.ComisionEmpleadoItem{
		ContratoID:         c.ID.String(),
		ContratoCodigo:     c.Codigo,
		ClienteNombre:      c.ClienteNombre,
		ContratoEstado:     c.Estado,
		ParticipanteID:     p.ID.String(),
		TipoComisionNombre: p.TipoComisionNombre,
		ComisionEstimada:   p.ComisionEstimada,
		ComisionCalculada:  p.ComisionCalculada,
		ComisionPagada:     p.ComisionPagada,
		ComisionPendiente:  p.SaldoPendiente(),
		EstadoComision:     p.EstadoComision,
		FechaPago:          fechaPtr(p.FechaPago),
	}
}

// ── RecalcularEstadisticas ────────────────────────────────────────────────────

// RecalcularEstadisticas rebuilds every employee's counters from the
// contracts themselves. Idempotent; meant to repair drift after manual data
// surgery or historical bugs.
func (s *liquidacionService) RecalcularEstadisticas(ctx context.Context) (*dto.RecalcularEstadisticasResponse, error) {
	empleados, err := s.empleadoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	contratos, err := s.contratoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		pagadas    decimal.Decimal
		pendientes decimal.Decimal
		contratos  map[uuid.UUID]bool
	}
	porEmpleado := make(map[uuid.UUID]*acumulado)
	for i := range empleados {
		porEmpleado[empleados[i].ID] = &acumulado{
			pagadas:    decimal.Zero,
			pendientes: decimal.Zero,
			contratos:  make(map[uuid.UUID]bool),
		}
	}

	for i := range contratos {
		c := &contratos[i]
		liquidable := c.Estado == model.EstadoPagado || c.Estado == model.EstadoLiquidado
		for j := range c.Participantes {
			p := &c.Participantes[j]
			acc, ok := porEmpleado[p.EmpleadoID]
			if !ok {
				continue
			}
			acc.pagadas = acc.pagadas.Add(p.ComisionPagada)
			if liquidable {
				acc.pendientes = acc.pendientes.Add(p.SaldoPendiente())
				acc.contratos[c.ID] = true
			}
		}
	}

	actualizados := 0
	txErr := runTx(ctx, s.empleadoRepo.DB(), func(tx *gorm.DB) error {
		for i := range empleados {
			emp := &empleados[i]
			acc := porEmpleado[emp.ID]
			emp.Estadisticas = model.Estadisticas{
				TotalGeneradas:     acc.pagadas.Add(acc.pendientes),
				TotalPagadas:       acc.pagadas,
				TotalPendientes:    acc.pendientes,
				ContratosAsociados: len(acc.contratos),
			}
			if err := s.empleadoRepo.Save(ctx, tx, emp); err != nil {
				return err
			}
			actualizados++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Int("empleados", actualizados).Msg("estadísticas recalculadas")
	return &dto.RecalcularEstadisticasResponse{EmpleadosActualizados: actualizados}, nil
}
