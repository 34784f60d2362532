package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Barcode            string          `json:"barcode"  validate:"required"`
	Name               string          `json:"name"     validate:"required"`
	Description        *string         `json:"description"`
	Category           string          `json:"category"`
	Cost               decimal.Decimal `json:"cost"     validate:"min=0"`
	Price              decimal.Decimal `json:"price"    validate:"required"`
	StockQty           int             `json:"stock_qty" validate:"min=0"`
	MinStock           int             `json:"min_stock" validate:"min=0"`
	MaxStock           *int            `json:"max_stock" validate:"omitempty,min=0"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
}

type UpdateProductRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Category           *string          `json:"category"`
	Cost               *decimal.Decimal `json:"cost"  validate:"omitempty"`
	Price              *decimal.Decimal `json:"price" validate:"omitempty"`
	MinStock           *int             `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock           *int             `json:"max_stock" validate:"omitempty,min=0"`
	AllowNegativeStock *bool            `json:"allow_negative_stock"`
}

type ProductResponse struct {
	ID                 string          `json:"id"`
	Barcode            string          `json:"barcode"`
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	Category           string          `json:"category"`
	Cost               decimal.Decimal `json:"cost"`
	Price              decimal.Decimal `json:"price"`
	StockQty           int             `json:"stock_qty"`
	MinStock           int             `json:"min_stock"`
	MaxStock           *int            `json:"max_stock,omitempty"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	Active             bool            `json:"active"`
}

type ProductFilter struct {
	Name     string `form:"name"`
	Barcode  string `form:"barcode"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is the payload of the cached barcode price lookup.
type PriceCheckResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
}
