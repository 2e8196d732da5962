package repository

import (
	"context"

	"commet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipoComisionRepository interface {
	Create(ctx context.Context, t *model.TipoComision) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoComision, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.TipoComision, error)
	Save(ctx context.Context, t *model.TipoComision) error
	UpdateOrden(ctx context.Context, tx *gorm.DB, id uuid.UUID, orden int) error
	MaxOrden(ctx context.Context) (int, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// ClearReferencias strips the template reference from participants while
	// keeping their snapshot name and values.
	ClearReferencias(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type tipoComisionRepo struct{ db *gorm.DB }

func NewTipoComisionRepository(db *gorm.DB) TipoComisionRepository {
	return &tipoComisionRepo{db: db}
}

func (r *tipoComisionRepo) DB() *gorm.DB { return r.db }

func (r *tipoComisionRepo) Create(ctx context.Context, t *model.TipoComision) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoComisionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoComision, error) {
	var t model.TipoComision
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tipoComisionRepo) List(ctx context.Context, incluirInactivos bool) ([]model.TipoComision, error) {
	var tipos []model.TipoComision
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("orden ASC, nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoComisionRepo) Save(ctx context.Context, t *model.TipoComision) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoComisionRepo) UpdateOrden(ctx context.Context, tx *gorm.DB, id uuid.UUID, orden int) error {
	return tx.WithContext(ctx).Model(&model.TipoComision{}).Where("id = ?", id).Update("orden", orden).Error
}

func (r *tipoComisionRepo) MaxOrden(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.TipoComision{}).
		Select("COALESCE(MAX(orden), 0)").Scan(&max).Error
	return max, err
}

func (r *tipoComisionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.TipoComision{}, id).Error
}

func (r *tipoComisionRepo) ClearReferencias(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Model(&model.Participante{}).
		Where("tipo_comision_id = ?", id).
		Updates(map[string]interface{}{"tipo_comision_id": nil, "usa_tipo_predefinido": false}).Error
}
