package repository

import (
	"context"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error)
	SaveTx(tx *gorm.DB, s *model.Sale) error
	List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// Summarize aggregates settled revenue over [from, to). PAID and CREDIT
	// sales count as revenue; partially refunded sales stay at face value
	// since refunds do not rewrite amounts.
	Summarize(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*SalesAggregate, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

// SalesAggregate is the raw material for the sales summary report.
type SalesAggregate struct {
	SaleCount     int64
	TotalSold     decimal.Decimal
	TotalItbis    decimal.Decimal
	TotalDiscount decimal.Decimal
	ByStatus      map[string]int64
	ByMethod      map[string]decimal.Decimal
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) SaveTx(tx *gorm.DB, s *model.Sale) error {
	// Omit associations: items are immutable after creation, only the header
	// changes during settlement, cancellation, and refund.
	return tx.Omit("Items", "Customer").Save(s).Error
}

func (r *saleRepo) Summarize(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*SalesAggregate, error) {
	agg := &SalesAggregate{
		TotalSold:     decimal.Zero,
		TotalItbis:    decimal.Zero,
		TotalDiscount: decimal.Zero,
		ByStatus:      map[string]int64{},
		ByMethod:      map[string]decimal.Decimal{},
	}

	revenueStatuses := []string{
		model.SaleStatusPaid,
		model.SaleStatusCredit,
		model.SaleStatusPartialRefunded,
		model.SaleStatusRefunded,
	}

	var totals struct {
		Count    int64
		Sold     decimal.Decimal
		Itbis    decimal.Decimal
		Discount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS sold, COALESCE(SUM(itbis_total), 0) AS itbis, COALESCE(SUM(discount_total), 0) AS discount").
		Where("company_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			companyID, revenueStatuses, from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	agg.SaleCount = totals.Count
	agg.TotalSold = totals.Sold
	agg.TotalItbis = totals.Itbis
	agg.TotalDiscount = totals.Discount

	var byStatus []struct {
		Status string
		Count  int64
	}
	err = r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, from, to).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		agg.ByStatus[row.Status] = row.Count
	}

	var byMethod []struct {
		PaymentMethod string
		Sold          decimal.Decimal
	}
	err = r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COALESCE(SUM(total), 0) AS sold").
		Where("company_id = ? AND status IN ? AND created_at >= ? AND created_at < ? AND payment_method IS NOT NULL",
			companyID, revenueStatuses, from, to).
		Group("payment_method").
		Scan(&byMethod).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byMethod {
		agg.ByMethod[row.PaymentMethod] = row.Sold
	}

	return agg, nil
}

func (r *saleRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("company_id = ?", companyID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}
