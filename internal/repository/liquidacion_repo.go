package repository

import (
	"context"
	"fmt"
	"time"

	"commet/internal/dto"
	"commet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiquidacionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error
	Save(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error)
	List(ctx context.Context, filter dto.LiquidacionFilter) ([]model.Liquidacion, int64, error)
	ListByEmpleado(ctx context.Context, empleadoID uuid.UUID) ([]model.Liquidacion, error)
	NextCodigo(ctx context.Context, tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type liquidacionRepo struct{ db *gorm.DB }

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository { return &liquidacionRepo{db: db} }

func (r *liquidacionRepo) DB() *gorm.DB { return r.db }

func (r *liquidacionRepo) Create(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error {
	return tx.WithContext(ctx).Create(l).Error
}

func (r *liquidacionRepo) Save(ctx context.Context, tx *gorm.DB, l *model.Liquidacion) error {
	return tx.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(l).Error
}

func (r *liquidacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *liquidacionRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := tx.WithContext(ctx).
		Preload("Empleado").
		Preload("Detalles.PagosPrevios").
		First(&l, id).Error
	return &l, err
}

func (r *liquidacionRepo) List(ctx context.Context, filter dto.LiquidacionFilter) ([]model.Liquidacion, int64, error) {
	var liquidaciones []model.Liquidacion
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Liquidacion{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Empleado != "" {
		q = q.Where("empleado_id = ?", filter.Empleado)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha < ?", filter.Hasta+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Empleado").
		Preload("Detalles.PagosPrevios").
		Order("fecha DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&liquidaciones).Error

	return liquidaciones, total, err
}

func (r *liquidacionRepo) ListByEmpleado(ctx context.Context, empleadoID uuid.UUID) ([]model.Liquidacion, error) {
	var liquidaciones []model.Liquidacion
	err := r.db.WithContext(ctx).
		Where("empleado_id = ?", empleadoID).
		Preload("Detalles").
		Order("fecha DESC").
		Find(&liquidaciones).Error
	return liquidaciones, err
}

// NextCodigo builds LIQ-<año><mes>-<secuencia> from a PostgreSQL sequence.
func (r *liquidacionRepo) NextCodigo(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('liquidaciones_codigo_seq')").Scan(&num).Error
	if err != nil {
		return "", err
	}
	now := time.Now()
	return fmt.Sprintf("LIQ-%d%02d-%05d", now.Year(), int(now.Month()), num), nil
}
