package repository

import (
	"context"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditAccountRepository interface {
	CreateTx(tx *gorm.DB, c *model.CreditAccount) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.CreditAccount, error)
	FindBySaleID(ctx context.Context, companyID, saleID uuid.UUID) (*model.CreditAccount, error)
	Update(ctx context.Context, c *model.CreditAccount) error
	DeleteBySaleTx(tx *gorm.DB, companyID, saleID uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, filter dto.CreditFilter) ([]model.CreditAccount, int64, error)
	// MarkOverdue flips OPEN/PARTIAL accounts whose due date has passed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type creditRepo struct{ db *gorm.DB }

func NewCreditAccountRepository(db *gorm.DB) CreditAccountRepository {
	return &creditRepo{db: db}
}

func (r *creditRepo) CreateTx(tx *gorm.DB, c *model.CreditAccount) error {
	return tx.Create(c).Error
}

func (r *creditRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.CreditAccount, error) {
	var c model.CreditAccount
	err := r.db.WithContext(ctx).
		Preload("Sale").Preload("Customer").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *creditRepo) FindBySaleID(ctx context.Context, companyID, saleID uuid.UUID) (*model.CreditAccount, error) {
	var c model.CreditAccount
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND sale_id = ?", companyID, saleID).
		First(&c).Error
	return &c, err
}

func (r *creditRepo) Update(ctx context.Context, c *model.CreditAccount) error {
	return r.db.WithContext(ctx).Omit("Sale", "Customer").Save(c).Error
}

func (r *creditRepo) DeleteBySaleTx(tx *gorm.DB, companyID, saleID uuid.UUID) error {
	return tx.Where("company_id = ? AND sale_id = ?", companyID, saleID).
		Delete(&model.CreditAccount{}).Error
}

func (r *creditRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.CreditFilter) ([]model.CreditAccount, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("company_id = ?", companyID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var accounts []model.CreditAccount
	err := q.Preload("Sale").Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&accounts).Error
	return accounts, total, err
}

func (r *creditRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CreditAccount{}).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{model.CreditStatusOpen, model.CreditStatusPartial}, now).
		Update("status", model.CreditStatusOverdue)
	return res.RowsAffected, res.Error
}
