package service

import (
	"context"

	"commet/internal/dto"
	"commet/internal/model"
	"commet/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminService interface {
	ResetDatos(ctx context.Context) (*dto.ResetDatosResponse, error)
}

type adminService struct {
	contratoRepo repository.ContratoRepository
}

func NewAdminService(contratoRepo repository.ContratoRepository) AdminService {
	return &adminService{contratoRepo: contratoRepo}
}

// ResetDatos wipes all business data — contracts, settlements, employees,
// commission templates and companies — and leaves the user accounts intact.
// Deletion order follows the foreign keys, children first.
func (s *adminService) ResetDatos(ctx context.Context) (*dto.ResetDatosResponse, error) {
	resp := dto.ResetDatosResponse{}

	contar := func(db *gorm.DB, m interface{}, dest *int64) {
		_ = db.Model(m).Count(dest).Error
	}

	txErr := runTx(ctx, s.contratoRepo.DB(), func(tx *gorm.DB) error {
		q := tx.WithContext(ctx)

		contar(q, &model.Contrato{}, &resp.Contratos)
		contar(q, &model.Empleado{}, &resp.Empleados)
		contar(q, &model.Liquidacion{}, &resp.Liquidaciones)
		contar(q, &model.TipoComision{}, &resp.TiposComision)
		contar(q, &model.Empresa{}, &resp.Empresas)

		borrar := []interface{}{
			&model.PagoPrevio{},
			&model.LiquidacionDetalle{},
			&model.Liquidacion{},
			&model.PagoComision{},
			&model.Participante{},
			&model.PagoContrato{},
			&model.CambioEstado{},
			&model.Contrato{},
			&model.TipoComision{},
			&model.Empleado{},
			&model.Empresa{},
		}
		for _, m := range borrar {
			if err := q.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Warn().Int64("contratos", resp.Contratos).Int64("liquidaciones", resp.Liquidaciones).
		Msg("datos reiniciados")
	return &resp, nil
}
