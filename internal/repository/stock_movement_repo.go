package repository

import (
	"context"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	// SumRefundedBySale sums prior REFUND movement quantities per product for
	// one sale. The movement log is the source of truth for refund accounting,
	// which makes repeated refund calls safe to retry.
	SumRefundedBySale(ctx context.Context, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error)
	SumRefundedBySaleTx(tx *gorm.DB, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Preload("Product").
		Where("company_id = ?", companyID)
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.RefType != "" {
		q = q.Where("ref_type = ?", filter.RefType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movements).Error
	return movements, total, err
}

type refundedRow struct {
	ProductID uuid.UUID
	Qty       int
}

func (r *stockMovementRepo) SumRefundedBySale(ctx context.Context, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	return sumRefunded(r.db.WithContext(ctx), companyID, saleID)
}

func (r *stockMovementRepo) SumRefundedBySaleTx(tx *gorm.DB, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	return sumRefunded(tx, companyID, saleID)
}

func sumRefunded(db *gorm.DB, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []refundedRow
	err := db.Model(&model.StockMovement{}).
		Select("product_id, COALESCE(SUM(qty_change), 0) AS qty").
		Where("company_id = ? AND ref_id = ? AND ref_type = ?", companyID, saleID, model.MovementRefRefund).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Qty
	}
	return out, nil
}
