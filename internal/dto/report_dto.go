package dto

import "github.com/shopspring/decimal"

type ReportRange struct {
	From string `form:"from"` // YYYY-MM-DD inclusive; empty = today
	To   string `form:"to"`   // YYYY-MM-DD inclusive; empty = today
}

// SalesSummaryResponse aggregates settled sales over a date range.
type SalesSummaryResponse struct {
	From            string            `json:"from"`
	To              string            `json:"to"`
	SaleCount       int64             `json:"sale_count"`
	TotalSold       decimal.Decimal   `json:"total_sold"`
	TotalItbis      decimal.Decimal   `json:"total_itbis"`
	TotalDiscount   decimal.Decimal   `json:"total_discount"`
	ByStatus        map[string]int64  `json:"by_status"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}

type LowStockItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	StockQty  int    `json:"stock_qty"`
	MinStock  int    `json:"min_stock"`
}
