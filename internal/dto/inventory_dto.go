package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest is a direct operator action; the note is mandatory for
// auditability.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	QtyChange int    `json:"qty_change" validate:"required"`
	Note      string `json:"note"       validate:"required,min=5"`
}

type AdjustStockResponse struct {
	ProductID   string `json:"product_id"`
	BeforeStock int    `json:"before_stock"`
	AfterStock  int    `json:"after_stock"`
}

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	RefType   string `form:"ref_type"   validate:"omitempty,oneof=SALE REFUND PURCHASE_RECEIPT ADJUSTMENT CANCEL_RESTORE"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	RefType     string           `json:"ref_type"`
	RefID       *string          `json:"ref_id,omitempty"`
	QtyChange   int              `json:"qty_change"`
	BeforeStock int              `json:"before_stock"`
	AfterStock  int              `json:"after_stock"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   string           `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
