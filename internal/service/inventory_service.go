package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	Adjust(ctx context.Context, actor model.Actor, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
	ListMovements(ctx context.Context, actor model.Actor, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStock(ctx context.Context, actor model.Actor) ([]dto.LowStockItem, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewInventoryService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) InventoryService {
	return &inventoryService{productRepo: productRepo, movementRepo: movementRepo}
}

// Adjust applies a manual stock correction under a row lock. Unlike sale
// settlement, a negative result is allowed when the product carries the
// allow_negative_stock flag.
func (s *inventoryService) Adjust(ctx context.Context, actor model.Actor, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.BadRequest(apierror.CodeValidation, "invalid product_id")
	}

	var resp dto.AdjustStockResponse
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		products, err := s.productRepo.LockForUpdateTx(tx, actor.CompanyID, []uuid.UUID{productID})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return apierror.NotFound("product not found")
		}
		p := products[0]

		after := p.StockQty + req.QtyChange
		if after < 0 && !p.AllowNegativeStock {
			return apierror.Conflict(apierror.CodeStockWouldGoNegative,
				fmt.Sprintf("adjustment would leave %q at %d units", p.Name, after))
		}

		if err := s.productRepo.UpdateStockTx(tx, p.ID, req.QtyChange); err != nil {
			return err
		}
		mov := &model.StockMovement{
			CompanyID:   actor.CompanyID,
			ProductID:   p.ID,
			RefType:     model.MovementRefAdjustment,
			QtyChange:   req.QtyChange,
			BeforeStock: p.StockQty,
			AfterStock:  after,
			Note:        req.Note,
			CreatedBy:   actor.UserID,
		}
		if err := s.movementRepo.CreateTx(tx, mov); err != nil {
			return err
		}

		resp = dto.AdjustStockResponse{
			ProductID:   p.ID.String(),
			BeforeStock: p.StockQty,
			AfterStock:  after,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, actor model.Actor, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movements, total, err := s.movementRepo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) LowStock(ctx context.Context, actor model.Actor) ([]dto.LowStockItem, error) {
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

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		RefType:     m.RefType,
		QtyChange:   m.QtyChange,
		BeforeStock: m.BeforeStock,
		AfterStock:  m.AfterStock,
		UnitCost:    m.UnitCost,
		Note:        m.Note,
		CreatedBy:   m.CreatedBy.String(),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.RefID != nil {
		ref := m.RefID.String()
		resp.RefID = &ref
	}
	return resp
}
