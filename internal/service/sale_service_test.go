package service

import (
	"context"
	"testing"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
}

func strPtr(s string) *string { return &s }

func draftSale(t *testing.T, svc SaleService, actor model.Actor, items ...dto.SaleItemRequest) *dto.SaleResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{Items: items})
	require.NoError(t, err)
	return resp
}

func cashPay(amount int64) dto.PaySaleRequest {
	return dto.PaySaleRequest{
		PaymentMethod: model.PaymentMethodCash,
		PaidAmount:    decimal.NewFromInt(amount),
	}
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestCreateSale_Draft(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Teclado USB", "7460001000011", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})

	assert.Equal(t, model.SaleStatusDraft, resp.Status)
	assert.Equal(t, "200", resp.Subtotal.String())
	assert.Equal(t, "36", resp.ItbisTotal.String())
	assert.Equal(t, "236", resp.Total.String())
	assert.Equal(t, "Teclado USB", resp.Items[0].ProductName)

	// a draft touches nothing: no stock deduction, no movements
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)
	assert.Empty(t, stubs.movements.movements)
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	svc, _, actor := buildSaleSvc()
	missing := uuid.New()

	_, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{
			ProductID: missing.String(),
			Qty:       decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(50),
		}},
	})
	assertCode(t, err, apierror.CodeProductsNotFound)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Details.([]string), missing.String())
}

func TestCreateSale_CustomerSnapshot(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Mouse", "7460001000028", 60, 5, 1)

	customer := &model.Customer{
		ID:        uuid.New(),
		CompanyID: actor.CompanyID,
		Name:      "Comercial Duarte SRL",
		RNC:       strPtr("131246789"),
		Active:    true,
	}
	stubs.customers.customers[customer.ID] = customer

	resp, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{
		CustomerID: strPtr(customer.ID.String()),
		Items: []dto.SaleItemRequest{{
			ProductID: p.ID.String(),
			Qty:       decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(60),
		}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.CustomerName)
	assert.Equal(t, "Comercial Duarte SRL", *resp.CustomerName)
	require.NotNil(t, resp.CustomerRNC)
	assert.Equal(t, "131246789", *resp.CustomerRNC)
}

// ─── Pay ─────────────────────────────────────────────────────────────────────

func TestPaySale_Cash(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Monitor 24", "7460001000035", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})

	paid, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(300))
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusPaid, paid.Status)
	assert.Equal(t, "64", paid.ChangeAmount.String()) // 300 - 236

	assert.Equal(t, 8, stubs.products.products[p.ID].StockQty)

	movs := stubs.movements.byType(model.MovementRefSale)
	require.Len(t, movs, 1)
	assert.Equal(t, -2, movs[0].QtyChange)
	assert.Equal(t, 10, movs[0].BeforeStock)
	assert.Equal(t, 8, movs[0].AfterStock)
	require.NotNil(t, movs[0].RefID)
	assert.Equal(t, resp.ID, movs[0].RefID.String())
}

func TestPaySale_NotDraft(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Cable HDMI", "7460001000042", 20, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(20),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(100))
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(100))
	assertCode(t, err, apierror.CodeSaleNotDraft)
}

func TestPaySale_InsufficientStock(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Router", "7460001000059", 150, 2, 1)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromInt(150),
	})

	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(2000))
	assertCode(t, err, apierror.CodeInsufficientStock)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	short := apiErr.Details.([]dto.ShortProduct)
	require.Len(t, short, 1)
	assert.Equal(t, p.ID.String(), short[0].ProductID)
	assert.Equal(t, 5, short[0].Requested)
	assert.Equal(t, 2, short[0].Available)

	// nothing moved, the sale is still payable after restocking
	assert.Equal(t, 2, stubs.products.products[p.ID].StockQty)
	assert.Empty(t, stubs.movements.movements)
	stored, _ := stubs.sales.FindByID(context.Background(), actor.CompanyID, uuid.MustParse(resp.ID))
	assert.Equal(t, model.SaleStatusDraft, stored.Status)
}

func TestPaySale_PaidAmountTooLow(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "SSD 480GB", "7460001000066", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})

	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(200)) // total is 236
	assertCode(t, err, apierror.CodePaidAmountTooLow)
}

func TestPaySale_FiscalRequiresRNC(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Impresora", "7460001000073", 100, 5, 1)

	resp, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{
		InvoiceType: model.InvoiceTypeFiscal,
		Items: []dto.SaleItemRequest{{
			ProductID: p.ID.String(),
			Qty:       decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(200))
	assertCode(t, err, apierror.CodeRNCRequired)
}

func TestPaySale_FiscalIssuesNCF(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Laptop", "7460001000080", 100, 5, 1)
	stubs.fiscal.seqs["02"] = &model.FiscalSequence{
		ID:        uuid.New(),
		CompanyID: actor.CompanyID,
		DocType:   "02",
		Prefix:    "B",
		Active:    true,
	}

	resp, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{
		InvoiceType: model.InvoiceTypeFiscal,
		CustomerRNC: strPtr("101000001"),
		Items: []dto.SaleItemRequest{{
			ProductID: p.ID.String(),
			Qty:       decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	req := cashPay(118)
	req.NCFDocType = strPtr("02")
	paid, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), req)
	require.NoError(t, err)
	require.NotNil(t, paid.NCF)
	assert.Equal(t, "B0200000001", *paid.NCF)
	assert.Equal(t, int64(1), stubs.fiscal.seqs["02"].CurrentNumber)
}

func TestPaySale_FiscalNoSequence(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Tablet", "7460001000097", 100, 5, 1)

	resp, err := svc.Create(context.Background(), actor, dto.CreateSaleRequest{
		InvoiceType: model.InvoiceTypeFiscal,
		CustomerRNC: strPtr("101000001"),
		Items: []dto.SaleItemRequest{{
			ProductID: p.ID.String(),
			Qty:       decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	req := cashPay(118)
	req.NCFDocType = strPtr("02")
	_, err = svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), req)
	assertCode(t, err, apierror.CodeNCFSequenceUnavailable)
}

func TestPaySale_CreditOpensAccount(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Nevera", "7460001000103", 100, 5, 1)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})

	paid, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), dto.PaySaleRequest{
		PaymentMethod: model.PaymentMethodCredit,
		PaidAmount:    decimal.NewFromInt(100), // initial down payment on 236
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCredit, paid.Status)
	require.NotNil(t, paid.DueDate)

	account, err := stubs.credits.FindBySaleID(context.Background(), actor.CompanyID, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "236", account.Total.String())
	assert.Equal(t, "100", account.Paid.String())
	assert.Equal(t, "136", account.Balance.String())
	assert.Equal(t, model.CreditStatusPartial, account.Status)
	require.NotNil(t, account.DueDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *account.DueDate, time.Minute)

	// stock commits at credit settlement exactly like a cash sale
	assert.Equal(t, 3, stubs.products.products[p.ID].StockQty)
}

func TestPaySale_CreditOverTotal(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Estufa", "7460001000110", 100, 5, 1)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})

	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), dto.PaySaleRequest{
		PaymentMethod: model.PaymentMethodCredit,
		PaidAmount:    decimal.NewFromInt(500),
	})
	assertCode(t, err, apierror.CodeValidation)
}

// ─── Cancel ──────────────────────────────────────────────────────────────────

func TestCancelSale_Draft(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Abanico", "7460001000127", 40, 5, 1)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(40),
	})

	cancelled, err := svc.Cancel(context.Background(), actor, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCancelled, cancelled.Status)
	assert.Empty(t, stubs.movements.movements)
}

func TestCancelSale_SettledRestoresStock(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Microondas", "7460001000134", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(3),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(400))
	require.NoError(t, err)
	assert.Equal(t, 7, stubs.products.products[p.ID].StockQty)

	cancelled, err := svc.Cancel(context.Background(), actor, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)

	restores := stubs.movements.byType(model.MovementRefCancelRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, 3, restores[0].QtyChange)

	// cancelling again is a no-op
	before := len(stubs.movements.movements)
	_, err = svc.Cancel(context.Background(), actor, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Len(t, stubs.movements.movements, before)
}

func TestCancelSale_CreditDeletesAccount(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Lavadora", "7460001000141", 100, 5, 1)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), dto.PaySaleRequest{
		PaymentMethod: model.PaymentMethodCredit,
		PaidAmount:    decimal.Zero,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), actor, uuid.MustParse(resp.ID))
	require.NoError(t, err)

	_, err = stubs.credits.FindBySaleID(context.Background(), actor.CompanyID, uuid.MustParse(resp.ID))
	assert.Error(t, err)
}

func TestCancelSale_AfterPartialRefund(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Bocina BT", "7460001000158", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(4),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(500))
	require.NoError(t, err)

	// refund 1 of 4, then cancel: only the remaining 3 go back
	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: p.ID.String(), Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, stubs.products.products[p.ID].StockQty)

	_, err = svc.Cancel(context.Background(), actor, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)

	restores := stubs.movements.byType(model.MovementRefCancelRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, 3, restores[0].QtyChange)
}

// ─── Refund ──────────────────────────────────────────────────────────────────

func TestRefundSale_Full(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Cafetera", "7460001000165", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(300))
	require.NoError(t, err)

	// no items = refund everything still out
	refunded, err := svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusRefunded, refunded.Status)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)

	refunds := stubs.movements.byType(model.MovementRefRefund)
	require.Len(t, refunds, 1)
	assert.Equal(t, 2, refunds[0].QtyChange)

	// refunding a REFUNDED sale is a no-op, not an error
	before := len(stubs.movements.movements)
	again, err := svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusRefunded, again.Status)
	assert.Len(t, stubs.movements.movements, before)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)
}

func TestRefundSale_Partial(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Ventilador", "7460001000172", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(3),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(400))
	require.NoError(t, err)

	partial, err := svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: p.ID.String(), Qty: 1}},
		Note:  "defective unit",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusPartialRefunded, partial.Status)
	assert.Equal(t, 8, stubs.products.products[p.ID].StockQty)

	// second partial refund works off the remaining 2
	full, err := svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: p.ID.String(), Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusRefunded, full.Status)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)
}

func TestRefundSale_QtyExceedsRemaining(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Plancha", "7460001000189", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(300))
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: p.ID.String(), Qty: 5}},
	})
	assertCode(t, err, apierror.CodeRefundQtyExceedsRemaining)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	excess := apiErr.Details.(dto.RefundExcess)
	assert.Equal(t, 5, excess.Requested)
	assert.Equal(t, 2, excess.Remaining)
	assert.Equal(t, 8, stubs.products.products[p.ID].StockQty)
}

func TestRefundSale_DuplicateItemsCappedAggregate(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Abanico de pedestal", "7460001000196", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(600))
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: p.ID.String(), Qty: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 8, stubs.products.products[p.ID].StockQty)

	// Only 2 units are still refundable; splitting 4 across two lines of the
	// same product must not slip past the cap.
	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{
			{ProductID: p.ID.String(), Qty: 2},
			{ProductID: p.ID.String(), Qty: 2},
		},
	})
	assertCode(t, err, apierror.CodeRefundQtyExceedsRemaining)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	excess := apiErr.Details.(dto.RefundExcess)
	assert.Equal(t, 4, excess.Requested)
	assert.Equal(t, 2, excess.Remaining)

	stored, _ := stubs.sales.FindByID(context.Background(), actor.CompanyID, uuid.MustParse(resp.ID))
	assert.Equal(t, model.SaleStatusPartialRefunded, stored.Status)
	assert.Equal(t, 8, stubs.products.products[p.ID].StockQty)
	assert.Len(t, stubs.movements.byType(model.MovementRefRefund), 1)

	// Splitting the exact remainder across lines is still a valid refund.
	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{
			{ProductID: p.ID.String(), Qty: 1},
			{ProductID: p.ID.String(), Qty: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, stubs.products.products[p.ID].StockQty)

	stored, _ = stubs.sales.FindByID(context.Background(), actor.CompanyID, uuid.MustParse(resp.ID))
	assert.Equal(t, model.SaleStatusRefunded, stored.Status)
}

func TestRefundSale_ForeignProduct(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Licuadora", "7460001000196", 100, 10, 2)
	other := seedProduct(stubs.products, actor.CompanyID, "Tostadora", "7460001000202", 50, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})
	_, err := svc.Pay(context.Background(), actor, uuid.MustParse(resp.ID), cashPay(200))
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{
		Items: []dto.RefundItemRequest{{ProductID: other.ID.String(), Qty: 1}},
	})
	assertCode(t, err, apierror.CodeInvalidRefundItem)
}

func TestRefundSale_DraftNotRefundable(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Freidora", "7460001000219", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})

	_, err := svc.Refund(context.Background(), actor, uuid.MustParse(resp.ID), dto.RefundSaleRequest{})
	assertCode(t, err, apierror.CodeSaleNotRefundable)
}

// Tenant isolation: a sale from another company is invisible.
func TestSale_CompanyScoping(t *testing.T) {
	svc, stubs, actor := buildSaleSvc()
	p := seedProduct(stubs.products, actor.CompanyID, "Horno", "7460001000226", 100, 10, 2)

	resp := draftSale(t, svc, actor, dto.SaleItemRequest{
		ProductID: p.ID.String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(100),
	})

	intruder := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	_, err := svc.Get(context.Background(), intruder, uuid.MustParse(resp.ID))
	assertCode(t, err, apierror.CodeNotFound)
}
