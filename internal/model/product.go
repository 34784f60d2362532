package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is owned by the catalog module; the POS engine reads it and mutates
// only the stock fields. Never deleted by the engine — soft-delete via Active.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Barcode     string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null;default:'general'"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQty    int             `gorm:"not null;default:0"`
	MinStock    int             `gorm:"not null;default:5"`
	MaxStock    *int
	// AllowNegativeStock is advisory: manual adjustments honor it, sale
	// settlement always forbids oversell regardless.
	AllowNegativeStock bool `gorm:"not null;default:false"`
	Active             bool `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
