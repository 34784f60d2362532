package repository

import (
	"context"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.PurchaseOrder) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.PurchaseOrder, error)
	SaveTx(tx *gorm.DB, p *model.PurchaseOrder) error
	List(ctx context.Context, companyID uuid.UUID, filter dto.PurchaseFilter) ([]model.PurchaseOrder, int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, p *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var p model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&p).Error
	return &p, err
}

func (r *purchaseRepo) SaveTx(tx *gorm.DB, p *model.PurchaseOrder) error {
	return tx.Omit("Items").Save(p).Error
}

func (r *purchaseRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.PurchaseFilter) ([]model.PurchaseOrder, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Where("company_id = ?", companyID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var orders []model.PurchaseOrder
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}
