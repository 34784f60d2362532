package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement reference types.
const (
	MovementRefSale            = "SALE"
	MovementRefRefund          = "REFUND"
	MovementRefPurchaseReceipt = "PURCHASE_RECEIPT"
	MovementRefAdjustment      = "ADJUSTMENT"
	MovementRefCancelRestore   = "CANCEL_RESTORE"
)

// StockMovement is the append-only record of every quantity delta. Movements
// are NEVER modified or deleted — reversals create inverse entries. Summing
// QtyChange for a product since inception reconstructs its current StockQty.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	RefType   string    `gorm:"type:varchar(20);not null;index"`
	// RefID links to the originating Sale or PurchaseOrder; nil for manual
	// adjustments.
	RefID     *uuid.UUID `gorm:"type:uuid;index"`
	QtyChange int        `gorm:"not null"` // positive = in, negative = out
	// BeforeStock/AfterStock are audit-only snapshots taken under the row lock.
	BeforeStock int              `gorm:"not null"`
	AfterStock  int              `gorm:"not null"`
	UnitCost    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Note        string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
