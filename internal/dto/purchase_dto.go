package dto

import "github.com/shopspring/decimal"

type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int             `json:"qty"        validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"required"`
}

type CreatePurchaseRequest struct {
	SupplierName string                `json:"supplier_name" validate:"required"`
	Note         *string               `json:"note"`
	Items        []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Qty         int             `json:"qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type PurchaseResponse struct {
	ID           string                 `json:"id"`
	SupplierName string                 `json:"supplier_name"`
	Status       string                 `json:"status"`
	Total        decimal.Decimal        `json:"total"`
	Note         *string                `json:"note,omitempty"`
	ReceivedAt   *string                `json:"received_at,omitempty"`
	Items        []PurchaseItemResponse `json:"items"`
	CreatedAt    string                 `json:"created_at"`
}

type PurchaseFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=PENDING RECEIVED CANCELLED"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
