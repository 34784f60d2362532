package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses. DRAFT has no stock effect; PAID and CREDIT are the settled
// states; PARTIAL_REFUNDED is recoverable; REFUNDED and CANCELLED are terminal.
const (
	SaleStatusDraft           = "DRAFT"
	SaleStatusPaid            = "PAID"
	SaleStatusCredit          = "CREDIT"
	SaleStatusPartialRefunded = "PARTIAL_REFUNDED"
	SaleStatusRefunded        = "REFUNDED"
	SaleStatusCancelled       = "CANCELLED"
)

// Invoice types. FISCAL sales require an RNC and an NCF at settlement.
const (
	InvoiceTypeNormal = "NORMAL"
	InvoiceTypeFiscal = "FISCAL"
)

// Payment methods accepted at settlement.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCredit   = "CREDIT"
)

// Sale is the transactional unit of the POS engine. Created once in DRAFT;
// every later field mutation happens through exactly one engine operation.
type Sale struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	// InvoiceNo is human-facing and time-based, not the fiscal number.
	InvoiceNo   string `gorm:"uniqueIndex;not null"`
	InvoiceType string `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	// NCF is the fiscal document number, assigned at most once at settlement.
	NCF           *string         `gorm:"type:varchar(20);column:ncf"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ItbisTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:itbis_total"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ChangeAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName  *string
	CustomerRNC   *string `gorm:"type:varchar(20);column:customer_rnc"`
	PaymentMethod *string `gorm:"type:varchar(20)"`
	// DueDate applies only to CREDIT settlements.
	DueDate   *time.Time
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
}

// SaleItem is immutable once the Sale is created. Line totals are computed at
// creation time and never recomputed; refunds and cancellations operate on
// quantities, not on re-derived prices.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Qty may be fractional for catalog purposes; settlement truncates to
	// integer units when deducting stock.
	Qty            decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ItbisAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:itbis_amount"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
