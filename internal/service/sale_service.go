package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/config"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, actor model.Actor, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Pay(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.PaySaleRequest) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.SaleResponse, error)
	Refund(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.RefundSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, actor model.Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	fiscalRepo   repository.FiscalSequenceRepository
	creditRepo   repository.CreditAccountRepository
	customerRepo repository.CustomerRepository
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	fiscalRepo repository.FiscalSequenceRepository,
	creditRepo repository.CreditAccountRepository,
	customerRepo repository.CustomerRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		fiscalRepo:   fiscalRepo,
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create (draft) ───────────────────────────────────────────────────────────
// A draft is a priced quote: totals are computed once, no stock or movement
// side effects.

func (s *saleService) Create(ctx context.Context, actor model.Actor, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// Resolve and validate every referenced product up front.
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.BadRequest(apierror.CodeValidation, "invalid product_id: "+item.ProductID)
		}
		if !seen[pid] {
			seen[pid] = true
			productIDs = append(productIDs, pid)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, actor.CompanyID, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		found := make(map[uuid.UUID]bool, len(products))
		for _, p := range products {
			found[p.ID] = true
		}
		var missing []string
		for _, pid := range productIDs {
			if !found[pid] {
				missing = append(missing, pid.String())
			}
		}
		return nil, apierror.BadRequest(apierror.CodeProductsNotFound, "one or more products do not exist").
			WithDetails(missing)
	}
	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	sale := model.Sale{
		CompanyID:     actor.CompanyID,
		InvoiceNo:     newInvoiceNo(time.Now()),
		InvoiceType:   model.InvoiceTypeNormal,
		Status:        model.SaleStatusDraft,
		DiscountTotal: req.Discount,
		CustomerName:  req.CustomerName,
		CustomerRNC:   req.CustomerRNC,
		CreatedBy:     actor.UserID,
	}
	if req.InvoiceType != "" {
		sale.InvoiceType = req.InvoiceType
	}
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.BadRequest(apierror.CodeValidation, "invalid customer_id")
		}
		customer, err := s.customerRepo.FindByID(ctx, actor.CompanyID, cid)
		if err != nil {
			return nil, apierror.NotFound("customer not found")
		}
		sale.CustomerID = &customer.ID
		// Snapshot name/RNC so later customer edits do not rewrite history.
		if sale.CustomerName == nil {
			sale.CustomerName = &customer.Name
		}
		if sale.CustomerRNC == nil {
			sale.CustomerRNC = customer.RNC
		}
	}

	grossSubtotal := decimal.Zero
	lineSubtotalSum := decimal.Zero
	for _, item := range req.Items {
		pid, _ := uuid.Parse(item.ProductID)
		amounts := computeLine(item.Qty, item.UnitPrice, item.DiscountAmount)
		grossSubtotal = grossSubtotal.Add(item.Qty.Mul(item.UnitPrice))
		lineSubtotalSum = lineSubtotalSum.Add(amounts.Subtotal)
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:      pid,
			Qty:            item.Qty,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			ItbisAmount:    amounts.Itbis,
			LineTotal:      amounts.Total,
		})
	}

	header := computeHeader(grossSubtotal, lineSubtotalSum, req.Discount)
	sale.Subtotal = header.Subtotal
	sale.ItbisTotal = header.Itbis
	sale.Total = header.Total
	sale.PaidAmount = decimal.Zero
	sale.ChangeAmount = decimal.Zero

	if err := s.repo.Create(ctx, &sale); err != nil {
		return nil, err
	}

	resp := saleToResponse(&sale)
	for i, item := range sale.Items {
		resp.Items[i].ProductName = names[item.ProductID]
	}
	return resp, nil
}

// ── Pay (settlement) ─────────────────────────────────────────────────────────
// The single atomic transaction that commits stock:
//  1. aggregate required units per product
//  2. lock product rows in id order
//  3. oversell check against locked quantities — all shortages reported at once
//  4. issue NCF if requested (atomic increment-and-return)
//  5. decrement stock, one SALE movement per product
//  6. flip status, persist payment fields
//  7. open a credit account for CREDIT settlements

func (s *saleService) Pay(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.PaySaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	if sale.Status != model.SaleStatusDraft {
		return nil, apierror.Conflict(apierror.CodeSaleNotDraft,
			fmt.Sprintf("sale is %s, only DRAFT sales can be paid", sale.Status))
	}

	rnc := sale.CustomerRNC
	if req.CustomerRNC != nil && *req.CustomerRNC != "" {
		rnc = req.CustomerRNC
	}
	needNCF := false
	if sale.InvoiceType == model.InvoiceTypeFiscal {
		if rnc == nil || *rnc == "" {
			return nil, apierror.BadRequest(apierror.CodeRNCRequired,
				"a customer RNC is required for fiscal invoices")
		}
		if sale.NCF == nil {
			if req.NCFDocType == nil || *req.NCFDocType == "" {
				return nil, apierror.BadRequest(apierror.CodeValidation,
					"ncf_doc_type is required to issue a fiscal number")
			}
			needNCF = true
		}
	}

	method := req.PaymentMethod
	paid := req.PaidAmount
	if method == model.PaymentMethodCredit {
		if paid.GreaterThan(sale.Total) {
			return nil, apierror.BadRequest(apierror.CodeValidation,
				"initial credit payment cannot exceed the sale total")
		}
	} else if paid.LessThan(sale.Total) {
		return nil, apierror.BadRequest(apierror.CodePaidAmountTooLow,
			fmt.Sprintf("paid amount %s is below the sale total %s", paid.StringFixed(2), sale.Total.StringFixed(2)))
	}
	change := changeFor(method, paid, sale.Total)

	required := soldUnits(sale.Items)
	ids := sortedProductIDs(required)

	type alertCandidate struct {
		name               string
		before, after, min int
	}
	var lowStock []alertCandidate

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		products, err := s.productRepo.LockForUpdateTx(tx, actor.CompanyID, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return apierror.BadRequest(apierror.CodeProductsNotFound, "one or more products no longer exist")
		}

		// Oversell is always blocked at settlement regardless of the
		// per-product allow_negative_stock flag: the money-moving path never
		// drives stock negative. Every shortage is reported in one response.
		var short []dto.ShortProduct
		for _, p := range products {
			if p.StockQty-required[p.ID] < 0 {
				short = append(short, dto.ShortProduct{
					ProductID: p.ID.String(),
					Requested: required[p.ID],
					Available: p.StockQty,
				})
			}
		}
		if len(short) > 0 {
			return apierror.Conflict(apierror.CodeInsufficientStock, "insufficient stock").
				WithDetails(short)
		}

		if needNCF {
			seq, err := s.fiscalRepo.IssueNextTx(tx, actor.CompanyID, *req.NCFDocType)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.BadRequest(apierror.CodeNCFSequenceUnavailable,
						"no active fiscal sequence for doc type "+*req.NCFDocType)
				}
				return err
			}
			ncf := FormatNCF(seq)
			sale.NCF = &ncf
		}

		for _, p := range products {
			qty := required[p.ID]
			if qty == 0 {
				continue
			}
			if err := s.productRepo.UpdateStockTx(tx, p.ID, -qty); err != nil {
				return err
			}
			after := p.StockQty - qty
			mov := &model.StockMovement{
				CompanyID:   actor.CompanyID,
				ProductID:   p.ID,
				RefType:     model.MovementRefSale,
				RefID:       &sale.ID,
				QtyChange:   -qty,
				BeforeStock: p.StockQty,
				AfterStock:  after,
				Note:        "Sale " + sale.InvoiceNo,
				CreatedBy:   actor.UserID,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			if after <= p.MinStock && p.StockQty > p.MinStock {
				lowStock = append(lowStock, alertCandidate{name: p.Name, before: p.StockQty, after: after, min: p.MinStock})
			}
		}

		sale.PaymentMethod = &method
		sale.PaidAmount = paid
		sale.ChangeAmount = change
		sale.CustomerRNC = rnc
		if method == model.PaymentMethodCredit {
			sale.Status = model.SaleStatusCredit
			dueDays := s.cfg.CreditDueDays
			if req.DueDays != nil {
				dueDays = *req.DueDays
			}
			due := time.Now().AddDate(0, 0, dueDays)
			sale.DueDate = &due

			balance := sale.Total.Sub(paid)
			status := model.CreditStatusOpen
			if balance.IsZero() {
				status = model.CreditStatusPaid
			} else if paid.IsPositive() {
				status = model.CreditStatusPartial
			}
			account := &model.CreditAccount{
				CompanyID:  actor.CompanyID,
				SaleID:     sale.ID,
				CustomerID: sale.CustomerID,
				Total:      sale.Total,
				Paid:       paid,
				Balance:    balance,
				DueDate:    &due,
				Status:     status,
			}
			if err := s.creditRepo.CreateTx(tx, account); err != nil {
				return err
			}
		} else {
			sale.Status = model.SaleStatusPaid
		}

		return s.repo.SaveTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit async side effects — best-effort, fire & forget.
	if s.dispatcher != nil {
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				CompanyID: actor.CompanyID.String(),
				SaleID:    sale.ID.String(),
				ToEmail:   *req.CustomerEmail,
			})
		}
		for _, a := range lowStock {
			_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
				ToEmail: s.cfg.AlertEmail,
				Subject: "Low stock: " + a.name,
				Body: fmt.Sprintf("Product %q dropped from %d to %d units (minimum %d) after sale %s.",
					a.name, a.before, a.after, a.min, sale.InvoiceNo),
			})
		}
	}

	return saleToResponse(sale), nil
}

// ── Cancel ───────────────────────────────────────────────────────────────────
// Idempotent: cancelling a CANCELLED sale is a no-op. Cancelling a settled
// sale restores whatever stock the sale still holds (sold minus already
// refunded) and deletes any credit account — a rollback, not a write-off.

func (s *saleService) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	if sale.Status == model.SaleStatusCancelled {
		return saleToResponse(sale), nil
	}

	if sale.Status == model.SaleStatusDraft {
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			sale.Status = model.SaleStatusCancelled
			return s.repo.SaveTx(tx, sale)
		})
		if txErr != nil {
			return nil, txErr
		}
		return saleToResponse(sale), nil
	}

	sold := soldUnits(sale.Items)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		refunded, err := s.movementRepo.SumRefundedBySaleTx(tx, actor.CompanyID, sale.ID)
		if err != nil {
			return err
		}
		restore := make(map[uuid.UUID]int, len(sold))
		for pid, qty := range sold {
			if remaining := qty - refunded[pid]; remaining > 0 {
				restore[pid] = remaining
			}
		}

		if len(restore) > 0 {
			ids := sortedProductIDs(restore)
			products, err := s.productRepo.LockForUpdateTx(tx, actor.CompanyID, ids)
			if err != nil {
				return err
			}
			for _, p := range products {
				qty := restore[p.ID]
				if err := s.productRepo.UpdateStockTx(tx, p.ID, qty); err != nil {
					return err
				}
				mov := &model.StockMovement{
					CompanyID:   actor.CompanyID,
					ProductID:   p.ID,
					RefType:     model.MovementRefCancelRestore,
					RefID:       &sale.ID,
					QtyChange:   qty,
					BeforeStock: p.StockQty,
					AfterStock:  p.StockQty + qty,
					Note:        "Cancellation of sale " + sale.InvoiceNo,
					CreatedBy:   actor.UserID,
				}
				if err := s.movementRepo.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		if err := s.creditRepo.DeleteBySaleTx(tx, actor.CompanyID, sale.ID); err != nil {
			return err
		}

		sale.Status = model.SaleStatusCancelled
		return s.repo.SaveTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}
	return saleToResponse(sale), nil
}

// ── Refund (full or partial) ────────────────────────────────────────────────
// Remaining refundable quantity is recomputed from the movement log each call,
// which makes retries and partial refunds naturally idempotent. SaleItems and
// prices are never mutated — refunds are purely quantity/stock events.

func (s *saleService) Refund(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.RefundSaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	if sale.Status == model.SaleStatusRefunded {
		return saleToResponse(sale), nil
	}
	switch sale.Status {
	case model.SaleStatusPaid, model.SaleStatusCredit, model.SaleStatusPartialRefunded:
		// stock was committed, refundable
	default:
		return nil, apierror.Conflict(apierror.CodeSaleNotRefundable,
			fmt.Sprintf("sale in status %s cannot be refunded", sale.Status))
	}

	sold := soldUnits(sale.Items)

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		refunded, err := s.movementRepo.SumRefundedBySaleTx(tx, actor.CompanyID, sale.ID)
		if err != nil {
			return err
		}
		remaining := make(map[uuid.UUID]int, len(sold))
		for pid, qty := range sold {
			remaining[pid] = qty - refunded[pid]
		}

		toRefund := make(map[uuid.UUID]int)
		if len(req.Items) == 0 {
			// Full refund of whatever has not yet been refunded.
			for pid, qty := range remaining {
				if qty > 0 {
					toRefund[pid] = qty
				}
			}
		} else {
			for _, item := range req.Items {
				pid, err := uuid.Parse(item.ProductID)
				if err != nil {
					return apierror.BadRequest(apierror.CodeInvalidRefundItem,
						"invalid product_id: "+item.ProductID)
				}
				if _, ok := sold[pid]; !ok {
					return apierror.BadRequest(apierror.CodeInvalidRefundItem,
						"product "+item.ProductID+" is not part of this sale")
				}
				toRefund[pid] += item.Qty
			}
			// The same product may repeat across request lines, so the cap
			// applies to the aggregate per product, not to each line.
			for _, pid := range sortedProductIDs(toRefund) {
				if toRefund[pid] > remaining[pid] {
					return apierror.Conflict(apierror.CodeRefundQtyExceedsRemaining,
						"refund quantity exceeds the remaining refundable amount").
						WithDetails(dto.RefundExcess{
							ProductID: pid.String(),
							Requested: toRefund[pid],
							Remaining: remaining[pid],
						})
				}
			}
		}

		if len(toRefund) > 0 {
			ids := sortedProductIDs(toRefund)
			products, err := s.productRepo.LockForUpdateTx(tx, actor.CompanyID, ids)
			if err != nil {
				return err
			}
			for _, p := range products {
				qty := toRefund[p.ID]
				if err := s.productRepo.UpdateStockTx(tx, p.ID, qty); err != nil {
					return err
				}
				note := "Refund of sale " + sale.InvoiceNo
				if req.Note != "" {
					note += ": " + req.Note
				}
				mov := &model.StockMovement{
					CompanyID:   actor.CompanyID,
					ProductID:   p.ID,
					RefType:     model.MovementRefRefund,
					RefID:       &sale.ID,
					QtyChange:   qty,
					BeforeStock: p.StockQty,
					AfterStock:  p.StockQty + qty,
					Note:        note,
					CreatedBy:   actor.UserID,
				}
				if err := s.movementRepo.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		anyRemaining := false
		for pid, qty := range remaining {
			if qty-toRefund[pid] > 0 {
				anyRemaining = true
				break
			}
		}
		if anyRemaining {
			sale.Status = model.SaleStatusPartialRefunded
		} else {
			sale.Status = model.SaleStatusRefunded
		}
		return s.repo.SaveTx(tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}
	return saleToResponse(sale), nil
}

func (s *saleService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("sale not found")
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, actor model.Actor, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:      item.ProductID.String(),
			ProductName:    name,
			Qty:            item.Qty,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			ItbisAmount:    item.ItbisAmount,
			LineTotal:      item.LineTotal,
		})
	}
	resp := &dto.SaleResponse{
		ID:            sale.ID.String(),
		InvoiceNo:     sale.InvoiceNo,
		InvoiceType:   sale.InvoiceType,
		NCF:           sale.NCF,
		Status:        sale.Status,
		Subtotal:      sale.Subtotal,
		DiscountTotal: sale.DiscountTotal,
		ItbisTotal:    sale.ItbisTotal,
		Total:         sale.Total,
		PaidAmount:    sale.PaidAmount,
		ChangeAmount:  sale.ChangeAmount,
		PaymentMethod: sale.PaymentMethod,
		CustomerName:  sale.CustomerName,
		CustomerRNC:   sale.CustomerRNC,
		Items:         items,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		cid := sale.CustomerID.String()
		resp.CustomerID = &cid
	}
	if sale.DueDate != nil {
		due := sale.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}
