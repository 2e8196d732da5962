package service

import (
	"context"
	"fmt"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type EmpleadoService interface {
	Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpleadoResponse, error)
	Listar(ctx context.Context, filter dto.EmpleadoFilter) (*dto.EmpleadoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Comisiones(ctx context.Context, id uuid.UUID) (*dto.ComisionesEmpleadoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type empleadoService struct {
	repo         repository.EmpleadoRepository
	contratoRepo repository.ContratoRepository
}

func NewEmpleadoService(repo repository.EmpleadoRepository, contratoRepo repository.ContratoRepository) EmpleadoService {
	return &empleadoService{repo: repo, contratoRepo: contratoRepo}
}

func (s *empleadoService) Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	empleado := model.Empleado{
		Nombre:         req.Nombre,
		Identificacion: req.Identificacion,
		Cargo:          req.Cargo,
		Email:          req.Email,
		Telefono:       req.Telefono,
		Activo:         true,
		ComisionBase:   model.Comision{Tipo: model.ComisionPorcentaje},
	}
	if req.ComisionBase != nil {
		empleado.ComisionBase = model.Comision{Tipo: req.ComisionBase.Tipo, Valor: req.ComisionBase.Valor}
	}

	dupa, err := s.repo.ExisteIdentificacion(ctx, req.Identificacion, nil)
	if err != nil {
		return nil, err
	}
	if dupa {
		return nil, apierror.Duplicate(
			fmt.Sprintf("ya existe un empleado con identificación %s", req.Identificacion))
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

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Codigo != nil && *req.Codigo != "" {
			empleado.Codigo = *req.Codigo
		} else {
			codigo, err := s.repo.NextCodigo(ctx, tx)
			if err != nil {
				return err
			}
			empleado.Codigo = codigo
		}
		return s.repo.Create(ctx, tx, &empleado)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("empleado", empleado.Codigo).Str("nombre", empleado.Nombre).Msg("empleado creado")
	return empleadoToResponse(&empleado), nil
}

func (s *empleadoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpleadoResponse, error) {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("empleado no encontrado")
	}
	return empleadoToResponse(empleado), nil
}

func (s *empleadoService) Listar(ctx context.Context, filter dto.EmpleadoFilter) (*dto.EmpleadoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	empleados, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EmpleadoResponse, 0, len(empleados))
	for i := range empleados {
		data = append(data, *empleadoToResponse(&empleados[i]))
	}
	return &dto.EmpleadoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *empleadoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("empleado no encontrado")
	}
	if req.Nombre != "" {
		empleado.Nombre = req.Nombre
	}
	if req.Identificacion != nil && *req.Identificacion != empleado.Identificacion {
		dupa, err := s.repo.ExisteIdentificacion(ctx, *req.Identificacion, &empleado.ID)
		if err != nil {
			return nil, err
		}
		if dupa {
			return nil, apierror.Duplicate(
				fmt.Sprintf("ya existe un empleado con identificación %s", *req.Identificacion))
		}
		empleado.Identificacion = *req.Identificacion
	}
	if req.ComisionBase != nil {
		empleado.ComisionBase = model.Comision{Tipo: req.ComisionBase.Tipo, Valor: req.ComisionBase.Valor}
	}
	if req.Cargo != nil {
		empleado.Cargo = req.Cargo
	}
	if req.Email != nil {
		empleado.Email = req.Email
	}
	if req.Telefono != nil {
		empleado.Telefono = req.Telefono
	}
	if req.Activo != nil {
		empleado.Activo = *req.Activo
	}
	if err := s.repo.Save(ctx, s.repo.DB(), empleado); err != nil {
		return nil, err
	}
	return empleadoToResponse(empleado), nil
}

// Comisiones is the employee's ledger: every participation of theirs across
// all contracts, newest contract first.
func (s *empleadoService) Comisiones(ctx context.Context, id uuid.UUID) (*dto.ComisionesEmpleadoResponse, error) {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("empleado no encontrado")
	}
	contratos, err := s.contratoRepo.ListByEmpleado(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ComisionesEmpleadoResponse{
		Empleado:   *empleadoToResponse(empleado),
		Comisiones: []dto.ComisionEmpleadoItem{},
	}
	for i := range contratos {
		c := &contratos[i]
		for j := range c.Participantes {
			p := &c.Participantes[j]
			if p.EmpleadoID != id {
				continue
			}
			resp.Comisiones = append(resp.Comisiones, comisionItem(c, p))
		}
	}
	return resp, nil
}

// Eliminar removes the employee and strips their participations from open
// contracts. Paid commissions or participations on settled contracts block
// the deletion; voiding the settlements first is the way out.
func (s *empleadoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	empleado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("empleado no encontrado")
	}
	contratos, err := s.contratoRepo.ListByEmpleado(ctx, id)
	if err != nil {
		return err
	}

	for i := range contratos {
		c := &contratos[i]
		if c.Estado == model.EstadoLiquidado {
			return apierror.NewKind(apierror.KindReferenciadoLiquidado,
				fmt.Sprintf("el empleado participa en el contrato liquidado %s", c.Codigo))
		}
		for j := range c.Participantes {
			p := &c.Participantes[j]
			if p.EmpleadoID == id && p.ComisionPagada.IsPositive() {
				return apierror.NewKind(apierror.KindComisionYaPagada,
					fmt.Sprintf("el empleado tiene comisiones pagadas en %s", c.Codigo))
			}
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.contratoRepo.DeleteParticipantesByEmpleado(ctx, tx, id); err != nil {
			return err
		}
		// Affected contracts lose a commission; their totals change.
		for i := range contratos {
			c := &contratos[i]
			restantes := c.Participantes[:0]
			for j := range c.Participantes {
				if c.Participantes[j].EmpleadoID != id {
					restantes = append(restantes, c.Participantes[j])
				}
			}
			c.Participantes = restantes
			c.RecalcularComisiones()
			if err := s.contratoRepo.Save(ctx, tx, c); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if txErr != nil {
		return txErr
	}

	log.Info().Str("empleado", empleado.Codigo).Int("contratos_afectados", len(contratos)).
		Msg("empleado eliminado")
	return nil
}
