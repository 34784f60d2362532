package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, actor model.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, actor model.Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, actor model.Actor, id uuid.UUID) error
	// PriceByBarcode is the hot read used at the register, served from a
	// Redis cache when possible.
	PriceByBarcode(ctx context.Context, actor model.Actor, barcode string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	rdb          *redis.Client
}

func NewProductService(repo repository.ProductRepository, movementRepo repository.StockMovementRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, movementRepo: movementRepo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, actor model.Actor, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := model.Product{
		CompanyID:          actor.CompanyID,
		Barcode:            req.Barcode,
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Cost:               req.Cost,
		Price:              req.Price,
		StockQty:           req.StockQty,
		MinStock:           req.MinStock,
		MaxStock:           req.MaxStock,
		AllowNegativeStock: req.AllowNegativeStock,
		Active:             true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}

	// Opening stock is recorded as an adjustment so the movement log can
	// reconstruct the quantity from day one.
	if req.StockQty > 0 {
		_ = s.movementRepo.Create(ctx, &model.StockMovement{
			CompanyID:   actor.CompanyID,
			ProductID:   p.ID,
			RefType:     model.MovementRefAdjustment,
			QtyChange:   req.StockQty,
			BeforeStock: 0,
			AfterStock:  req.StockQty,
			Note:        "Opening stock",
			CreatedBy:   actor.UserID,
		})
	}
	return productToResponse(&p), nil
}

func (s *productService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, actor model.Actor, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		p.MaxStock = req.MaxStock
	}
	if req.AllowNegativeStock != nil {
		p.AllowNegativeStock = *req.AllowNegativeStock
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, actor, p.Barcode)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return apierror.NotFound("product not found")
	}
	if err := s.repo.Deactivate(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, actor, p.Barcode)
	return nil
}

func (s *productService) PriceByBarcode(ctx context.Context, actor model.Actor, barcode string) (*dto.PriceCheckResponse, error) {
	cacheKey := priceCacheKey(actor, barcode)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.PriceCheckResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, actor.CompanyID, barcode)
	if err != nil {
		return nil, apierror.NotFound("product not found")
	}
	resp := &dto.PriceCheckResponse{
		ProductID: p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		StockQty:  p.StockQty,
	}

	// Populate cache best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, cacheKey, b, priceCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productService) invalidatePriceCache(ctx context.Context, actor model.Actor, barcode string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, priceCacheKey(actor, barcode)).Err()
}

func priceCacheKey(actor model.Actor, barcode string) string {
	return "price:" + actor.CompanyID.String() + ":" + barcode
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID.String(),
		Barcode:            p.Barcode,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		Cost:               p.Cost,
		Price:              p.Price,
		StockQty:           p.StockQty,
		MinStock:           p.MinStock,
		MaxStock:           p.MaxStock,
		AllowNegativeStock: p.AllowNegativeStock,
		Active:             p.Active,
	}
}
