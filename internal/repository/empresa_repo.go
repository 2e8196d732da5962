package repository

import (
	"context"

	"commet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmpresaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Empresa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	FindPredeterminada(ctx context.Context) (*model.Empresa, error)
	List(ctx context.Context) ([]model.Empresa, error)
	Save(ctx context.Context, tx *gorm.DB, e *model.Empresa) error
	// ClearPredeterminada unsets the default flag everywhere; caller sets the
	// new default afterwards.
	ClearPredeterminada(ctx context.Context, tx *gorm.DB) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) DB() *gorm.DB { return r.db }

func (r *empresaRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Empresa) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *empresaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *empresaRepo) FindPredeterminada(ctx context.Context) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).Where("predeterminada = true AND activa = true").First(&e).Error
	return &e, err
}

func (r *empresaRepo) List(ctx context.Context) ([]model.Empresa, error) {
	var empresas []model.Empresa
	err := r.db.WithContext(ctx).Order("predeterminada DESC, nombre ASC").Find(&empresas).Error
	return empresas, err
}

func (r *empresaRepo) Save(ctx context.Context, tx *gorm.DB, e *model.Empresa) error {
	return tx.WithContext(ctx).Save(e).Error
}

func (r *empresaRepo) ClearPredeterminada(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).Model(&model.Empresa{}).
		Where("predeterminada = true").Update("predeterminada", false).Error
}

func (r *empresaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Empresa{}, id).Error
}
