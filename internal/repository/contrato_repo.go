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

type ContratoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error
	Save(ctx context.Context, tx *gorm.DB, c *model.Contrato) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contrato, error)
	List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error)
	ListAll(ctx context.Context) ([]model.Contrato, error)
	ListByEmpleado(ctx context.Context, empleadoID uuid.UUID) ([]model.Contrato, error)
	NextCodigo(ctx context.Context, tx *gorm.DB) (string, error)
	Count(ctx context.Context) (int64, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteParticipante(ctx context.Context, tx *gorm.DB, participanteID uuid.UUID) error
	DeleteParticipantesByEmpleado(ctx context.Context, tx *gorm.DB, empleadoID uuid.UUID) error
	DeletePagosComision(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID) error
	CountLiquidadosConTipo(ctx context.Context, tipoComisionID uuid.UUID) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type contratoRepo struct{ db *gorm.DB }

func NewContratoRepository(db *gorm.DB) ContratoRepository { return &contratoRepo{db: db} }

func (r *contratoRepo) DB() *gorm.DB { return r.db }

func (r *contratoRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Contrato) error {
	return tx.WithContext(ctx).Create(c).Error
}

// Save persists the aggregate including modified children. FullSaveAssociations
// is needed so recalculated participant amounts are written, not just the root.
func (r *contratoRepo) Save(ctx context.Context, tx *gorm.DB, c *model.Contrato) error {
	return tx.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
}

func (r *contratoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *contratoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contrato, error) {
	var c model.Contrato
	err := tx.WithContext(ctx).
		Preload("Participantes.Empleado").
		Preload("Participantes.HistorialPagos").
		Preload("HistorialPagos").
		Preload("HistorialEstados").
		Preload("Empresa").
		First(&c, id).Error
	return &c, err
}

func (r *contratoRepo) List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error) {
	var contratos []model.Contrato
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Contrato{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Empleado != "" {
		q = q.Where("id IN (SELECT contrato_id FROM participantes WHERE empleado_id = ?)", filter.Empleado)
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("codigo ILIKE ? OR cliente_nombre ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Participantes.Empleado").
		Preload("Participantes.HistorialPagos").
		Order("fecha DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&contratos).Error

	return contratos, total, err
}

func (r *contratoRepo) ListAll(ctx context.Context) ([]model.Contrato, error) {
	var contratos []model.Contrato
	err := r.db.WithContext(ctx).
		Preload("Participantes").
		Find(&contratos).Error
	return contratos, err
}

func (r *contratoRepo) ListByEmpleado(ctx context.Context, empleadoID uuid.UUID) ([]model.Contrato, error) {
	var contratos []model.Contrato
	err := r.db.WithContext(ctx).
		Where("id IN (SELECT contrato_id FROM participantes WHERE empleado_id = ?)", empleadoID).
		Preload("Participantes.Empleado").
		Preload("Participantes.HistorialPagos").
		Order("fecha DESC").
		Find(&contratos).Error
	return contratos, err
}

// NextCodigo builds CTR-<año>-<secuencia> from a PostgreSQL sequence so that
// concurrent creations can never collide.
func (r *contratoRepo) NextCodigo(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('contratos_codigo_seq')").Scan(&num).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CTR-%d-%05d", time.Now().Year(), num), nil
}

func (r *contratoRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Contrato{}).Count(&total).Error
	return total, err
}

func (r *contratoRepo) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Contrato{}).Where("codigo = ?", codigo).Count(&total).Error
	return total > 0, err
}

func (r *contratoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	q := tx.WithContext(ctx)
	if err := q.Where("participante_id IN (SELECT id FROM participantes WHERE contrato_id = ?)", id).
		Delete(&model.PagoComision{}).Error; err != nil {
		return err
	}
	if err := q.Where("contrato_id = ?", id).Delete(&model.Participante{}).Error; err != nil {
		return err
	}
	if err := q.Where("contrato_id = ?", id).Delete(&model.PagoContrato{}).Error; err != nil {
		return err
	}
	if err := q.Where("contrato_id = ?", id).Delete(&model.CambioEstado{}).Error; err != nil {
		return err
	}
	return q.Delete(&model.Contrato{}, id).Error
}

func (r *contratoRepo) DeleteParticipante(ctx context.Context, tx *gorm.DB, participanteID uuid.UUID) error {
	q := tx.WithContext(ctx)
	if err := q.Where("participante_id = ?", participanteID).Delete(&model.PagoComision{}).Error; err != nil {
		return err
	}
	return q.Delete(&model.Participante{}, participanteID).Error
}

func (r *contratoRepo) DeleteParticipantesByEmpleado(ctx context.Context, tx *gorm.DB, empleadoID uuid.UUID) error {
	q := tx.WithContext(ctx)
	if err := q.Where("participante_id IN (SELECT id FROM participantes WHERE empleado_id = ?)", empleadoID).
		Delete(&model.PagoComision{}).Error; err != nil {
		return err
	}
	return q.Where("empleado_id = ?", empleadoID).Delete(&model.Participante{}).Error
}

// DeletePagosComision removes the commission payment history rows written by
// one settlement; used when the settlement is voided.
func (r *contratoRepo) DeletePagosComision(ctx context.Context, tx *gorm.DB, liquidacionID uuid.UUID) error {
	return tx.WithContext(ctx).Where("liquidacion_id = ?", liquidacionID).Delete(&model.PagoComision{}).Error
}

// CountLiquidadosConTipo counts settled contracts that still reference a
// commission template; those block the template's deletion.
func (r *contratoRepo) CountLiquidadosConTipo(ctx context.Context, tipoComisionID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Participante{}).
		Joins("JOIN contratos ON contratos.id = participantes.contrato_id").
		Where("participantes.tipo_comision_id = ? AND contratos.estado = ?", tipoComisionID, model.EstadoLiquidado).
		Count(&total).Error
	return total, err
}
