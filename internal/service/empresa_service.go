package service

import (
	"context"

	"commet/internal/apierror"
	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmpresaService interface {
	Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error)
	Listar(ctx context.Context) ([]dto.EmpresaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type empresaService struct {
	repo repository.EmpresaRepository
}

func NewEmpresaService(repo repository.EmpresaRepository) EmpresaService {
	return &empresaService{repo: repo}
}

func (s *empresaService) Crear(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error) {
	empresa := model.Empresa{
		Nombre:         req.Nombre,
		Identificacion: req.Identificacion,
		Telefono:       req.Telefono,
		Email:          req.Email,
		Direccion:      req.Direccion,
		Predeterminada: req.Predeterminada,
		Activa:         true,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if empresa.Predeterminada {
			if err := s.repo.ClearPredeterminada(ctx, tx); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tx, &empresa)
	})
	if txErr != nil {
		return nil, txErr
	}
	return empresaToResponse(&empresa), nil
}

func (s *empresaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error) {
	empresa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("empresa no encontrada")
	}
	return empresaToResponse(empresa), nil
}

func (s *empresaService) Listar(ctx context.Context) ([]dto.EmpresaResponse, error) {
	empresas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EmpresaResponse, 0, len(empresas))
	for i := range empresas {
		data = append(data, *empresaToResponse(&empresas[i]))
	}
	return data, nil
}

func (s *empresaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error) {
	empresa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("empresa no encontrada")
	}
	if req.Nombre != "" {
		empresa.Nombre = req.Nombre
	}
	if req.Identificacion != nil {
		empresa.Identificacion = req.Identificacion
	}
	if req.Telefono != nil {
		empresa.Telefono = req.Telefono
	}
	if req.Email != nil {
		empresa.Email = req.Email
	}
	if req.Direccion != nil {
		empresa.Direccion = req.Direccion
	}
	if req.Activa != nil {
		empresa.Activa = *req.Activa
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Predeterminada != nil && *req.Predeterminada && !empresa.Predeterminada {
			if err := s.repo.ClearPredeterminada(ctx, tx); err != nil {
				return err
			}
			empresa.Predeterminada = true
		}
		if req.Predeterminada != nil && !*req.Predeterminada {
			empresa.Predeterminada = false
		}
		return s.repo.Save(ctx, tx, empresa)
	})
	if txErr != nil {
		return nil, txErr
	}
	return empresaToResponse(empresa), nil
}

func (s *empresaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("empresa no encontrada")
	}
	// Settlements carry their own company snapshot, so past receipts survive.
	return s.repo.Delete(ctx, id)
}
