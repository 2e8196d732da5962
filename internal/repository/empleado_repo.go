package repository

import (
	"context"
	"fmt"

	"commet/internal/dto"
	"commet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmpleadoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Empleado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Empleado, error)
	List(ctx context.Context, filter dto.EmpleadoFilter) ([]model.Empleado, int64, error)
	ListAll(ctx context.Context) ([]model.Empleado, error)
	Save(ctx context.Context, tx *gorm.DB, e *model.Empleado) error
	NextCodigo(ctx context.Context, tx *gorm.DB) (string, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	ExisteIdentificacion(ctx context.Context, identificacion string, excluirID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) DB() *gorm.DB { return r.db }

func (r *empleadoRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Empleado) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *empleadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empleado, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *empleadoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Empleado, error) {
	var e model.Empleado
	err := tx.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *empleadoRepo) List(ctx context.Context, filter dto.EmpleadoFilter) ([]model.Empleado, int64, error) {
	var empleados []model.Empleado
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Empleado{})

	switch filter.Activo {
	case "all":
	case "false":
		q = q.Where("activo = false")
	default:
		q = q.Where("activo = true")
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("codigo ILIKE ? OR nombre ILIKE ? OR identificacion ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("nombre ASC").Offset(offset).Limit(filter.Limit).Find(&empleados).Error
	return empleados, total, err
}

func (r *empleadoRepo) ListAll(ctx context.Context) ([]model.Empleado, error) {
	var empleados []model.Empleado
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&empleados).Error
	return empleados, err
}

func (r *empleadoRepo) Save(ctx context.Context, tx *gorm.DB, e *model.Empleado) error {
	return tx.WithContext(ctx).Save(e).Error
}

func (r *empleadoRepo) NextCodigo(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('empleados_codigo_seq')").Scan(&num).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EMP-%04d", num), nil
}

func (r *empleadoRepo) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Empleado{}).Where("codigo = ?", codigo).Count(&total).Error
	return total > 0, err
}

func (r *empleadoRepo) ExisteIdentificacion(ctx context.Context, identificacion string, excluirID *uuid.UUID) (bool, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Empleado{}).Where("identificacion = ?", identificacion)
	if excluirID != nil {
		q = q.Where("id <> ?", *excluirID)
	}
	err := q.Count(&total).Error
	return total > 0, err
}

func (r *empleadoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.Empleado{}, id).Error
}
