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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Create(ctx context.Context, actor model.Actor, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, actor model.Actor, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
	Receive(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error)
	Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) PurchaseService {
	return &purchaseService{repo: repo, productRepo: productRepo, movementRepo: movementRepo}
}

func (s *purchaseService) Create(ctx context.Context, actor model.Actor, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	order := model.PurchaseOrder{
		CompanyID:    actor.CompanyID,
		SupplierName: req.SupplierName,
		Status:       model.PurchaseStatusPending,
		Note:         req.Note,
		CreatedBy:    actor.UserID,
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.BadRequest(apierror.CodeValidation, "invalid product_id: "+item.ProductID)
		}
		if !seen[pid] {
			seen[pid] = true
			productIDs = append(productIDs, pid)
		}
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Qty))))
		order.Items = append(order.Items, model.PurchaseOrderItem{
			ProductID: pid,
			Qty:       item.Qty,
			UnitCost:  item.UnitCost,
		})
	}
	order.Total = round2(total)

	products, err := s.productRepo.FindByIDs(ctx, actor.CompanyID, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, apierror.BadRequest(apierror.CodeProductsNotFound, "one or more products do not exist")
	}

	if err := s.repo.Create(ctx, &order); err != nil {
		return nil, err
	}
	return purchaseToResponse(&order), nil
}

func (s *purchaseService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error) {
	order, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("purchase order not found")
	}
	return purchaseToResponse(order), nil
}

func (s *purchaseService) List(ctx context.Context, actor model.Actor, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *purchaseToResponse(&orders[i]))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Receive books the ordered quantities into stock. One PURCHASE_RECEIPT
// movement per item, and the product cost is updated to the latest unit cost.
// Only PENDING orders can be received, and only once.
func (s *purchaseService) Receive(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error) {
	order, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("purchase order not found")
	}
	if order.Status != model.PurchaseStatusPending {
		return nil, apierror.Conflict(apierror.CodePurchaseNotReceivable,
			fmt.Sprintf("purchase order is %s, only PENDING orders can be received", order.Status))
	}

	incoming := make(map[uuid.UUID]int, len(order.Items))
	costs := make(map[uuid.UUID]decimal.Decimal, len(order.Items))
	for _, item := range order.Items {
		incoming[item.ProductID] += item.Qty
		costs[item.ProductID] = item.UnitCost
	}
	ids := sortedProductIDs(incoming)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		products, err := s.productRepo.LockForUpdateTx(tx, actor.CompanyID, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return apierror.BadRequest(apierror.CodeProductsNotFound, "one or more products no longer exist")
		}

		for _, p := range products {
			qty := incoming[p.ID]
			if err := s.productRepo.UpdateStockTx(tx, p.ID, qty); err != nil {
				return err
			}
			cost := costs[p.ID]
			if err := s.productRepo.UpdateCostTx(tx, p.ID, cost); err != nil {
				return err
			}
			mov := &model.StockMovement{
				CompanyID:   actor.CompanyID,
				ProductID:   p.ID,
				RefType:     model.MovementRefPurchaseReceipt,
				RefID:       &order.ID,
				QtyChange:   qty,
				BeforeStock: p.StockQty,
				AfterStock:  p.StockQty + qty,
				UnitCost:    &cost,
				Note:        "Receipt of purchase from " + order.SupplierName,
				CreatedBy:   actor.UserID,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		now := time.Now()
		order.Status = model.PurchaseStatusReceived
		order.ReceivedAt = &now
		return s.repo.SaveTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(order), nil
}

// Cancel marks a PENDING order as cancelled. Received orders are immutable;
// mistakes after receipt are corrected with a manual adjustment.
func (s *purchaseService) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PurchaseResponse, error) {
	order, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("purchase order not found")
	}
	if order.Status == model.PurchaseStatusCancelled {
		return purchaseToResponse(order), nil
	}
	if order.Status != model.PurchaseStatusPending {
		return nil, apierror.Conflict(apierror.CodePurchaseNotReceivable,
			fmt.Sprintf("purchase order is %s and can no longer be cancelled", order.Status))
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order.Status = model.PurchaseStatusCancelled
		return s.repo.SaveTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(order), nil
}

func purchaseToResponse(order *model.PurchaseOrder) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.PurchaseItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: name,
			Qty:         item.Qty,
			UnitCost:    item.UnitCost,
		})
	}
	resp := &dto.PurchaseResponse{
		ID:           order.ID.String(),
		SupplierName: order.SupplierName,
		Status:       order.Status,
		Total:        order.Total,
		Note:         order.Note,
		Items:        items,
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
	}
	if order.ReceivedAt != nil {
		received := order.ReceivedAt.Format(time.RFC3339)
		resp.ReceivedAt = &received
	}
	return resp
}
