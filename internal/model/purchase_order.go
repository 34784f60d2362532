package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses. Receiving is guarded by a status check: only
// PENDING orders can be received, exactly once.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusReceived  = "RECEIVED"
	PurchaseStatusCancelled = "CANCELLED"
)

// PurchaseOrder is the inbound counterpart of a sale: receiving it increases
// stock and updates each product's cost basis.
type PurchaseOrder struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierName string    `gorm:"not null"`
	Status       string    `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Note         *string
	ReceivedAt   *time.Time
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderItem lines are committed at creation; receiving applies them
// verbatim.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty             int             `gorm:"not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
