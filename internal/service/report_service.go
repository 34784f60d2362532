package service

import (
	"context"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"
)

type ReportService interface {
	SalesSummary(ctx context.Context, actor model.Actor, r dto.ReportRange) (*dto.SalesSummaryResponse, error)
	LowStock(ctx context.Context, actor model.Actor) ([]dto.LowStockItem, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{saleRepo: saleRepo, productRepo: productRepo}
}

func (s *reportService) SalesSummary(ctx context.Context, actor model.Actor, r dto.ReportRange) (*dto.SalesSummaryResponse, error) {
	from, to, err := resolveRange(r)
	if err != nil {
		return nil, err
	}

	agg, err := s.saleRepo.Summarize(ctx, actor.CompanyID, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.SalesSummaryResponse{
		From:            from.Format("2006-01-02"),
		To:              to.AddDate(0, 0, -1).Format("2006-01-02"),
		SaleCount:       agg.SaleCount,
		TotalSold:       agg.TotalSold,
		TotalItbis:      agg.TotalItbis,
		TotalDiscount:   agg.TotalDiscount,
		ByStatus:        agg.ByStatus,
		ByPaymentMethod: agg.ByMethod,
	}, nil
}

func (s *reportService) LowStock(ctx context.Context, actor model.Actor) ([]dto.LowStockItem, error) {
	products, err := s.productRepo.LowStock(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, dto.LowStockItem{
			ProductID: p.ID.String(),
			Name:      p.Name,
			StockQty:  p.StockQty,
			MinStock:  p.MinStock,
		})
	}
	return items, nil
}

// resolveRange turns inclusive YYYY-MM-DD bounds into the half-open
// [from, to) interval the repository expects. Empty bounds default to today.
func resolveRange(r dto.ReportRange) (time.Time, time.Time, error) {
	today := time.Now().Truncate(24 * time.Hour)

	from := today
	if r.From != "" {
		parsed, err := time.Parse("2006-01-02", r.From)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.BadRequest(apierror.CodeValidation, "invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}

	to := today
	if r.To != "" {
		parsed, err := time.Parse("2006-01-02", r.To)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.BadRequest(apierror.CodeValidation, "invalid to date, expected YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apierror.BadRequest(apierror.CodeValidation, "to date is before from date")
	}
	return from, to.AddDate(0, 0, 1), nil
}
