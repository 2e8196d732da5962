package service

import (
	"context"
	"fmt"
	"time"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ContratoService interface {
	Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error)
	Listar(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContratoRequest) (*dto.ContratoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.ContratoResponse, error)
	RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoContratoRequest) (*dto.ContratoResponse, error)
	AgregarParticipante(ctx context.Context, id uuid.UUID, req dto.ParticipanteRequest) (*dto.ContratoResponse, error)
	EliminarParticipante(ctx context.Context, id, participanteID uuid.UUID) (*dto.ContratoResponse, error)
	GenerarCodigo(ctx context.Context) (*dto.CodigoResponse, error)
	VerificarCodigo(ctx context.Context, codigo string) (*dto.VerificarCodigoResponse, error)
}

type contratoService struct {
	repo         repository.ContratoRepository
	empleadoRepo repository.EmpleadoRepository
	tipoRepo     repository.TipoComisionRepository
	empresaRepo  repository.EmpresaRepository
}

func NewContratoService(
	repo repository.ContratoRepository,
	empleadoRepo repository.EmpleadoRepository,
	tipoRepo repository.TipoComisionRepository,
	empresaRepo repository.EmpresaRepository,
) ContratoService {
	return &contratoService{
		repo:         repo,
		empleadoRepo: empleadoRepo,
		tipoRepo:     tipoRepo,
		empresaRepo:  empresaRepo,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *contratoService) Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	fecha := time.Now()
	if req.Fecha != nil {
		f, err := time.Parse("2006-01-02", *req.Fecha)
		if err == nil {
			fecha = f
		}
	}
	var vencimiento *time.Time
	if req.FechaVencimiento != nil {
		if f, err := time.Parse("2006-01-02", *req.FechaVencimiento); err == nil {
			vencimiento = &f
		}
	}

	var empresaID *uuid.UUID
	if req.EmpresaID != nil {
		eid, err := uuid.Parse(*req.EmpresaID)
		if err != nil {
			return nil, apierror.Invalid("empresa_id inválido")
		}
		if _, err := s.empresaRepo.FindByID(ctx, eid); err != nil {
			return nil, apierror.NotFound("empresa no encontrada")
		}
		empresaID = &eid
	}

	// Resolve participants outside the transaction; employee and template
	// lookups don't need tx isolation.
	participantes, err := s.resolverParticipantes(ctx, req.Tipo, req.Participantes)
	if err != nil {
		return nil, err
	}

	if req.Codigo != nil && *req.Codigo != "" {
		existe, err := s.repo.ExisteCodigo(ctx, *req.Codigo)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, apierror.Duplicate(fmt.Sprintf("el código %s ya está en uso", *req.Codigo))
		}
	}

	contrato := model.Contrato{
		EmpresaID:             empresaID,
		Tipo:                  req.Tipo,
		ClienteNombre:         req.Cliente.Nombre,
		ClienteIdentificacion: req.Cliente.Identificacion,
		ClienteTelefono:       req.Cliente.Telefono,
		ClienteEmail:          req.Cliente.Email,
		Fecha:                 fecha,
		FechaVencimiento:      vencimiento,
		Descripcion:           req.Descripcion,
		Observaciones:         req.Observaciones,
		MontoTotal:            req.MontoTotal,
		Deducciones:           req.Deducciones,
		Estado:                model.EstadoRegistrado,
		Participantes:         participantes,
	}
	contrato.AgregarCambioEstado(model.EstadoRegistrado, "Contrato registrado")
	contrato.RecalcularComisiones()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Codigo != nil && *req.Codigo != "" {
			contrato.Codigo = *req.Codigo
		} else {
			codigo, err := s.repo.NextCodigo(ctx, tx)
			if err != nil {
				return err
			}
			contrato.Codigo = codigo
		}
		return s.repo.Create(ctx, tx, &contrato)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("contrato", contrato.Codigo).Str("cliente", contrato.ClienteNombre).
		Msg("contrato creado")

	creado, err := s.repo.FindByID(ctx, contrato.ID)
	if err != nil {
		return contratoToResponse(&contrato), nil
	}
	return contratoToResponse(creado), nil
}

// resolverParticipantes turns participant requests into rows, copying template
// values when a predefined type is referenced and falling back to the
// employee's base policy when neither template nor manual commission comes in.
// Duplicate (empleado, tipo) pairs are rejected; the same employee with
// DIFFERENT types is allowed.
func (s *contratoService) resolverParticipantes(ctx context.Context, tipoContrato string, reqs []dto.ParticipanteRequest) ([]model.Participante, error) {
	participantes := make([]model.Participante, 0, len(reqs))
	vistos := make(map[string]bool)

	for _, pr := range reqs {
		empleadoID, err := uuid.Parse(pr.EmpleadoID)
		if err != nil {
			return nil, apierror.Invalid("empleado_id inválido")
		}
		empleado, err := s.empleadoRepo.FindByID(ctx, empleadoID)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("empleado %s no encontrado", pr.EmpleadoID))
		}
		if !empleado.Activo {
			return nil, apierror.Invalid(fmt.Sprintf("el empleado %s está inactivo", empleado.Nombre))
		}

		p := model.Participante{EmpleadoID: empleadoID}
		var claveTipo string

		if pr.TipoComisionID != nil {
			tid, err := uuid.Parse(*pr.TipoComisionID)
			if err != nil {
				return nil, apierror.Invalid("tipo_comision_id inválido")
			}
			tipo, err := s.tipoRepo.FindByID(ctx, tid)
			if err != nil {
				return nil, apierror.NotFound("tipo de comisión no encontrado")
			}
			if !tipo.Activo {
				return nil, apierror.Invalid(fmt.Sprintf("el tipo de comisión %s está inactivo", tipo.Nombre))
			}
			if !tipo.AplicaATipoContrato(tipoContrato) {
				return nil, apierror.Invalid(
					fmt.Sprintf("el tipo de comisión %s no aplica a contratos %s", tipo.Nombre, tipoContrato))
			}
			p.TipoComisionID = &tid
			p.TipoComisionNombre = tipo.Nombre
			p.Comision = model.Comision{Tipo: tipo.Tipo, Valor: tipo.Valor}
			p.UsaTipoPredefinido = true
			claveTipo = tid.String()
		} else {
			comision := empleado.ComisionPorDefecto()
			if pr.Comision != nil {
				comision = model.Comision{Tipo: pr.Comision.Tipo, Valor: pr.Comision.Valor}
			}
			p.TipoComisionNombre = "Comisión Base"
			p.Comision = comision
			claveTipo = "manual:" + comision.Tipo + ":" + comision.Valor.String()
		}

		clave := empleadoID.String() + "|" + claveTipo
		if vistos[clave] {
			return nil, apierror.Duplicate(
				fmt.Sprintf("el empleado %s ya participa con ese tipo de comisión", empleado.Nombre))
		}
		vistos[clave] = true

		p.EstadoComision = model.ComisionPendiente
		participantes = append(participantes, p)
	}
	return participantes, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *contratoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	return contratoToResponse(contrato), nil
}

func (s *contratoService) Listar(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	contratos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContratoResponse, 0, len(contratos))
	for i := range contratos {
		data = append(data, *contratoToResponse(&contratos[i]))
	}
	return &dto.ContratoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *contratoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContratoRequest) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	if contrato.Cerrado() {
		return nil, apierror.NewKind(apierror.KindContratoCerrado,
			fmt.Sprintf("el contrato está %s y no admite cambios", contrato.Estado))
	}

	if req.Cliente != nil {
		contrato.ClienteNombre = req.Cliente.Nombre
		contrato.ClienteIdentificacion = req.Cliente.Identificacion
		contrato.ClienteTelefono = req.Cliente.Telefono
		contrato.ClienteEmail = req.Cliente.Email
	}
	if req.FechaVencimiento != nil {
		if f, err := time.Parse("2006-01-02", *req.FechaVencimiento); err == nil {
			contrato.FechaVencimiento = &f
		}
	}
	if req.Descripcion != nil {
		contrato.Descripcion = req.Descripcion
	}
	if req.Observaciones != nil {
		contrato.Observaciones = req.Observaciones
	}
	if req.MontoTotal != nil {
		contrato.MontoTotal = *req.MontoTotal
	}
	if req.Deducciones != nil {
		contrato.Deducciones = *req.Deducciones
	}

	contrato.RecalcularComisiones()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Save(ctx, tx, contrato)
	})
	if txErr != nil {
		return nil, txErr
	}
	return contratoToResponse(contrato), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *contratoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("contrato no encontrado")
	}
	if contrato.Estado == model.EstadoLiquidado {
		return apierror.NewKind(apierror.KindContratoCerrado,
			"un contrato liquidado no puede eliminarse")
	}
	for i := range contrato.Participantes {
		if contrato.Participantes[i].ComisionPagada.IsPositive() {
			return apierror.NewKind(apierror.KindComisionYaPagada,
				"el contrato tiene comisiones pagadas; anule las liquidaciones primero")
		}
	}

	// Contracts that reached pagado already bumped employee stats; undo that
	// before the rows disappear.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if contrato.Estado == model.EstadoPagado {
			if err := s.revertirEstadisticas(ctx, tx, contrato); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("contrato", contrato.Codigo).Msg("contrato eliminado")
	return nil
}

func (s *contratoService) revertirEstadisticas(ctx context.Context, tx *gorm.DB, contrato *model.Contrato) error {
	porEmpleado := make(map[uuid.UUID]*model.Empleado)
	for i := range contrato.Participantes {
		p := &contrato.Participantes[i]
		emp, ok := porEmpleado[p.EmpleadoID]
		if !ok {
			var err error
			emp, err = s.empleadoRepo.FindByIDTx(ctx, tx, p.EmpleadoID)
			if err != nil {
				continue
			}
			emp.Estadisticas.ContratosAsociados--
			porEmpleado[p.EmpleadoID] = emp
		}
		emp.Estadisticas.TotalGeneradas = emp.Estadisticas.TotalGeneradas.Sub(p.ComisionCalculada)
		emp.Estadisticas.TotalPendientes = emp.Estadisticas.TotalPendientes.Sub(p.ComisionCalculada)
	}
	for _, emp := range porEmpleado {
		if err := s.empleadoRepo.Save(ctx, tx, emp); err != nil {
			return err
		}
	}
	return nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────

func (s *contratoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	if req.Estado == model.EstadoLiquidado {
		// liquidado solo se alcanza liquidando comisiones, nunca a mano
		return nil, apierror.TransicionInvalida(
			"el estado liquidado se alcanza creando una liquidación, no manualmente")
	}
	if !contrato.PuedeTransicionar(req.Estado) {
		return nil, apierror.TransicionInvalida(
			fmt.Sprintf("transición %s → %s no permitida", contrato.Estado, req.Estado))
	}

	obs := ""
	if req.Observacion != nil {
		obs = *req.Observacion
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Estado == model.EstadoPagado {
			return s.marcarPagado(ctx, tx, contrato, obs)
		}
		contrato.Estado = req.Estado
		contrato.AgregarCambioEstado(req.Estado, obs)
		contrato.RecalcularComisiones()
		return s.repo.Save(ctx, tx, contrato)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("contrato", contrato.Codigo).Str("estado", req.Estado).
		Msg("cambio de estado")
	return contratoToResponse(contrato), nil
}

// marcarPagado moves the contract to pagado: the client balance closes, every
// commission jumps to its full estimate and the employees' counters absorb
// the accrued amounts.
func (s *contratoService) marcarPagado(ctx context.Context, tx *gorm.DB, contrato *model.Contrato, obs string) error {
	contrato.Estado = model.EstadoPagado
	if contrato.MontoPagado.LessThan(contrato.MontoNeto) {
		contrato.MontoPagado = contrato.MontoNeto
	}
	contrato.AgregarCambioEstado(model.EstadoPagado, obs)
	contrato.RecalcularComisiones()

	porEmpleado := make(map[uuid.UUID]*model.Empleado)
	for i := range contrato.Participantes {
		p := &contrato.Participantes[i]
		emp, ok := porEmpleado[p.EmpleadoID]
		if !ok {
			var err error
			emp, err = s.empleadoRepo.FindByIDTx(ctx, tx, p.EmpleadoID)
			if err != nil {
				return fmt.Errorf("empleado %s: %w", p.EmpleadoID, err)
			}
			emp.Estadisticas.ContratosAsociados++
			porEmpleado[p.EmpleadoID] = emp
		}
		emp.Estadisticas.TotalGeneradas = emp.Estadisticas.TotalGeneradas.Add(p.ComisionCalculada)
		emp.Estadisticas.TotalPendientes = emp.Estadisticas.TotalPendientes.Add(p.ComisionCalculada)
	}
	for _, emp := range porEmpleado {
		if err := s.empleadoRepo.Save(ctx, tx, emp); err != nil {
			return err
		}
	}
	return s.repo.Save(ctx, tx, contrato)
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────

func (s *contratoService) RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoContratoRequest) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	if contrato.Cerrado() {
		return nil, apierror.NewKind(apierror.KindContratoCerrado,
			fmt.Sprintf("el contrato está %s y no acepta pagos", contrato.Estado))
	}
	// A fully collected contract (pagado or MontoPagado == MontoNeto) falls
	// through to the same zero-balance rejection.
	saldo := contrato.MontoNeto.Sub(contrato.MontoPagado)
	if !saldo.IsPositive() {
		return nil, apierror.Invalid("el contrato no tiene saldo pendiente")
	}

	// Overpayments clamp to the outstanding balance rather than failing: the
	// last installment usually arrives rounded up.
	monto := req.Monto
	if monto.GreaterThan(saldo) {
		monto = saldo
	}

	contrato.MontoPagado = contrato.MontoPagado.Add(monto)
	contrato.HistorialPagos = append(contrato.HistorialPagos, model.PagoContrato{
		ContratoID:  contrato.ID,
		Monto:       monto,
		Metodo:      req.Metodo,
		Referencia:  req.Referencia,
		Observacion: req.Observacion,
		Fecha:       time.Now(),
	})

	completo := contrato.MontoPagado.GreaterThanOrEqual(contrato.MontoNeto)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Stats accrue only on the transition into pagado; a contract already
		// pagado (balance reopened by a later amount edit) just recomputes.
		if completo && contrato.Estado != model.EstadoPagado {
			return s.marcarPagado(ctx, tx, contrato, "Pago completado")
		}
		if contrato.Estado == model.EstadoRegistrado {
			contrato.Estado = model.EstadoPagoParcial
			contrato.AgregarCambioEstado(model.EstadoPagoParcial, "Primer pago registrado")
		}
		contrato.RecalcularComisiones()
		return s.repo.Save(ctx, tx, contrato)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("contrato", contrato.Codigo).Str("monto", monto.String()).
		Bool("completo", completo).Msg("pago de cliente registrado")
	return contratoToResponse(contrato), nil
}

// ── Participantes ─────────────────────────────────────────────────────────────

func (s *contratoService) AgregarParticipante(ctx context.Context, id uuid.UUID, req dto.ParticipanteRequest) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	if contrato.Cerrado() {
		return nil, apierror.NewKind(apierror.KindContratoCerrado,
			fmt.Sprintf("el contrato está %s y no admite participantes nuevos", contrato.Estado))
	}

	nuevos, err := s.resolverParticipantes(ctx, contrato.Tipo, []dto.ParticipanteRequest{req})
	if err != nil {
		return nil, err
	}
	nuevo := nuevos[0]

	for i := range contrato.Participantes {
		p := &contrato.Participantes[i]
		if p.EmpleadoID != nuevo.EmpleadoID {
			continue
		}
		mismoTipo := (p.TipoComisionID == nil && nuevo.TipoComisionID == nil &&
			p.Comision.Tipo == nuevo.Comision.Tipo && p.Comision.Valor.Equal(nuevo.Comision.Valor)) ||
			(p.TipoComisionID != nil && nuevo.TipoComisionID != nil && *p.TipoComisionID == *nuevo.TipoComisionID)
		if mismoTipo {
			return nil, apierror.Duplicate("el empleado ya participa con ese tipo de comisión")
		}
	}

	nuevo.ContratoID = contrato.ID
	contrato.Participantes = append(contrato.Participantes, nuevo)
	contrato.RecalcularComisiones()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Save(ctx, tx, contrato)
	})
	if txErr != nil {
		return nil, txErr
	}
	return contratoToResponse(contrato), nil
}

func (s *contratoService) EliminarParticipante(ctx context.Context, id, participanteID uuid.UUID) (*dto.ContratoResponse, error) {
	contrato, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("contrato no encontrado")
	}
	if contrato.Cerrado() {
		return nil, apierror.NewKind(apierror.KindContratoCerrado,
			fmt.Sprintf("el contrato está %s y no admite quitar participantes", contrato.Estado))
	}

	idx := -1
	for i := range contrato.Participantes {
		if contrato.Participantes[i].ID == participanteID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apierror.NotFound("participante no encontrado en el contrato")
	}
	victima := contrato.Participantes[idx]
	if victima.ComisionPagada.IsPositive() {
		return nil, apierror.NewKind(apierror.KindComisionYaPagada,
			"el participante tiene comisiones pagadas; anule las liquidaciones primero")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Contratos pagados ya contaron esta comisión en las estadísticas.
		if contrato.Estado == model.EstadoPagado {
			emp, err := s.empleadoRepo.FindByIDTx(ctx, tx, victima.EmpleadoID)
			if err == nil {
				emp.Estadisticas.TotalGeneradas = emp.Estadisticas.TotalGeneradas.Sub(victima.ComisionCalculada)
				emp.Estadisticas.TotalPendientes = emp.Estadisticas.TotalPendientes.Sub(victima.ComisionCalculada)
				participaOtra := false
				for i := range contrato.Participantes {
					if i != idx && contrato.Participantes[i].EmpleadoID == victima.EmpleadoID {
						participaOtra = true
						break
					}
				}
				if !participaOtra {
					emp.Estadisticas.ContratosAsociados--
				}
				if err := s.empleadoRepo.Save(ctx, tx, emp); err != nil {
					return err
				}
			}
		}
		if err := s.repo.DeleteParticipante(ctx, tx, participanteID); err != nil {
			return err
		}
		contrato.Participantes = append(contrato.Participantes[:idx], contrato.Participantes[idx+1:]...)
		contrato.RecalcularComisiones()
		return s.repo.Save(ctx, tx, contrato)
	})
	if txErr != nil {
		return nil, txErr
	}
	return contratoToResponse(contrato), nil
}

// ── Códigos ───────────────────────────────────────────────────────────────────

// GenerarCodigo previews the next human code without consuming the sequence;
// the real code is taken from the sequence at creation time, so the preview
// can go stale under concurrency (it's display-only).
func (s *contratoService) GenerarCodigo(ctx context.Context) (*dto.CodigoResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	codigo := fmt.Sprintf("CTR-%d-%05d", time.Now().Year(), total+1)
	return &dto.CodigoResponse{Codigo: codigo}, nil
}

func (s *contratoService) VerificarCodigo(ctx context.Context, codigo string) (*dto.VerificarCodigoResponse, error) {
	existe, err := s.repo.ExisteCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	return &dto.VerificarCodigoResponse{Codigo: codigo, Disponible: !existe}, nil
}
