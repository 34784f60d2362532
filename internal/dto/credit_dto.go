package dto

import "github.com/shopspring/decimal"

type CreditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   string          `json:"note"`
}

type CreditAccountResponse struct {
	ID           string          `json:"id"`
	SaleID       string          `json:"sale_id"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
	CustomerID   *string         `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
	DueDate      *string         `json:"due_date,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"created_at"`
}

type CreditFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=OPEN PARTIAL PAID OVERDUE"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreditListResponse struct {
	Data  []CreditAccountResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
