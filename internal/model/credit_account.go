package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit account statuses.
const (
	CreditStatusOpen    = "OPEN"
	CreditStatusPartial = "PARTIAL"
	CreditStatusPaid    = "PAID"
	CreditStatusOverdue = "OVERDUE"
)

// CreditAccount is the receivable opened when a sale settles on credit terms.
// Created exactly once per CREDIT sale; deleted if the originating sale is
// cancelled (cancellation is a rollback, not a write-off).
type CreditAccount struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paid       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Balance = Total - Paid, kept in sync by every payment write.
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate   *time.Time      `gorm:"index"`
	Status    string          `gorm:"type:varchar(10);not null;default:'OPEN';index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Sale     *Sale     `gorm:"foreignKey:SaleID"`
	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
