package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID      string          `json:"product_id" validate:"required,uuid"`
	Qty            decimal.Decimal `json:"qty"        validate:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" validate:"required"`
	DiscountAmount decimal.Decimal `json:"discount_amount" validate:"min=0"`
}

type CreateSaleRequest struct {
	CustomerID   *string           `json:"customer_id"   validate:"omitempty,uuid"`
	CustomerName *string           `json:"customer_name"`
	CustomerRNC  *string           `json:"customer_rnc"`
	InvoiceType  string            `json:"invoice_type"  validate:"omitempty,oneof=NORMAL FISCAL"`
	Discount     decimal.Decimal   `json:"discount"      validate:"min=0"`
	Items        []SaleItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type PaySaleRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD TRANSFER CREDIT"`
	PaidAmount    decimal.Decimal `json:"paid_amount"    validate:"min=0"`
	// CustomerRNC may be supplied at settlement time for FISCAL sales that
	// were drafted without one.
	CustomerRNC *string `json:"customer_rnc"`
	// NCFDocType requests a fiscal number of that type when the sale has none.
	NCFDocType *string `json:"ncf_doc_type" validate:"omitempty,len=2"`
	// DueDays overrides the configured credit term for CREDIT settlements.
	DueDays *int `json:"due_days" validate:"omitempty,min=1"`
	// CustomerEmail triggers a fire-and-forget receipt email after commit.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type RefundItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty"        validate:"required,min=1"`
}

// RefundSaleRequest with no items means "refund everything not yet refunded".
type RefundSaleRequest struct {
	Items []RefundItemRequest `json:"items" validate:"omitempty,dive"`
	Note  string              `json:"note"`
}

type SaleFilter struct {
	Status string `form:"status"`
	Date   string `form:"date"` // YYYY-MM-DD; empty = all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name,omitempty"`
	Qty            decimal.Decimal `json:"qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ItbisAmount    decimal.Decimal `json:"itbis_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNo     string             `json:"invoice_no"`
	InvoiceType   string             `json:"invoice_type"`
	NCF           *string            `json:"ncf,omitempty"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	ItbisTotal    decimal.Decimal    `json:"itbis_total"`
	Total         decimal.Decimal    `json:"total"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	ChangeAmount  decimal.Decimal    `json:"change_amount"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	CustomerName  *string            `json:"customer_name,omitempty"`
	CustomerRNC   *string            `json:"customer_rnc,omitempty"`
	DueDate       *string            `json:"due_date,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ShortProduct reports one insufficient-stock entry inside the
// INSUFFICIENT_STOCK error details, so the caller can resolve all shortages
// in one round trip.
type ShortProduct struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// RefundExcess reports a refund over-request inside the
// REFUND_QTY_EXCEEDS_REMAINING error details.
type RefundExcess struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Remaining int    `json:"remaining"`
}
