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

type TipoComisionService interface {
	Crear(ctx context.Context, req dto.CrearTipoComisionRequest) (*dto.TipoComisionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoComisionResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.TipoComisionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoComisionRequest) (*dto.TipoComisionResponse, error)
	Reordenar(ctx context.Context, req dto.ReordenarTiposRequest) ([]dto.TipoComisionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type tipoComisionService struct {
	repo         repository.TipoComisionRepository
	contratoRepo repository.ContratoRepository
}

func NewTipoComisionService(repo repository.TipoComisionRepository, contratoRepo repository.ContratoRepository) TipoComisionService {
	return &tipoComisionService{repo: repo, contratoRepo: contratoRepo}
}

func (s *tipoComisionService) Crear(ctx context.Context, req dto.CrearTipoComisionRequest) (*dto.TipoComisionResponse, error) {
	maxOrden, err := s.repo.MaxOrden(ctx)
	if err != nil {
		return nil, err
	}
	tipo := model.TipoComision{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Tipo:        req.Tipo,
		Valor:       req.Valor,
		AplicaA:     req.AplicaA,
		Color:       req.Color,
		Activo:      true,
		Orden:       maxOrden + 1,
	}
	if err := s.repo.Create(ctx, &tipo); err != nil {
		return nil, err
	}
	log.Info().Str("tipo_comision", tipo.Nombre).Msg("tipo de comisión creado")
	return tipoComisionToResponse(&tipo), nil
}

func (s *tipoComisionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.TipoComisionResponse, error) {
	tipo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("tipo de comisión no encontrado")
	}
	return tipoComisionToResponse(tipo), nil
}

func (s *tipoComisionService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.TipoComisionResponse, error) {
	tipos, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TipoComisionResponse, 0, len(tipos))
	for i := range tipos {
		data = append(data, *tipoComisionToResponse(&tipos[i]))
	}
	return data, nil
}

// Actualizar edits the template. Existing contracts keep the values they
// copied when the participant was added; only future uses see the change.
func (s *tipoComisionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoComisionRequest) (*dto.TipoComisionResponse, error) {
	tipo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("tipo de comisión no encontrado")
	}
	if req.Nombre != "" {
		tipo.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		tipo.Descripcion = req.Descripcion
	}
	if req.Tipo != "" {
		tipo.Tipo = req.Tipo
	}
	if req.Valor != nil {
		tipo.Valor = *req.Valor
	}
	if req.AplicaA != nil {
		tipo.AplicaA = req.AplicaA
	}
	if req.Color != nil {
		tipo.Color = req.Color
	}
	if req.Activo != nil {
		tipo.Activo = *req.Activo
	}
	if err := s.repo.Save(ctx, tipo); err != nil {
		return nil, err
	}
	return tipoComisionToResponse(tipo), nil
}

// Reordenar rewrites the display order: listed IDs take positions 1..n,
// unlisted templates keep their relative order after them.
func (s *tipoComisionService) Reordenar(ctx context.Context, req dto.ReordenarTiposRequest) ([]dto.TipoComisionResponse, error) {
	tipos, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	existentes := make(map[uuid.UUID]bool, len(tipos))
	for i := range tipos {
		existentes[tipos[i].ID] = true
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.Invalid("id inválido en la lista de orden")
		}
		if !existentes[id] {
			return nil, apierror.NotFound(fmt.Sprintf("tipo de comisión %s no encontrado", raw))
		}
		ids = append(ids, id)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orden := 1
		listado := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if err := s.repo.UpdateOrden(ctx, tx, id, orden); err != nil {
				return err
			}
			listado[id] = true
			orden++
		}
		for i := range tipos {
			if listado[tipos[i].ID] {
				continue
			}
			if err := s.repo.UpdateOrden(ctx, tx, tipos[i].ID, orden); err != nil {
				return err
			}
			orden++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Listar(ctx, true)
}

// Eliminar removes the template. Participations keep their copied values but
// lose the reference; settled contracts still pointing at the template block
// the deletion to keep their audit trail resolvable.
func (s *tipoComisionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	tipo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("tipo de comisión no encontrado")
	}

	liquidados, err := s.contratoRepo.CountLiquidadosConTipo(ctx, id)
	if err != nil {
		return err
	}
	if liquidados > 0 {
		return apierror.NewKind(apierror.KindReferenciadoLiquidado,
			fmt.Sprintf("%d contrato(s) liquidado(s) usan el tipo %s", liquidados, tipo.Nombre))
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ClearReferencias(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if txErr != nil {
		return txErr
	}
	log.Info().Str("tipo_comision", tipo.Nombre).Msg("tipo de comisión eliminado")
	return nil
}
