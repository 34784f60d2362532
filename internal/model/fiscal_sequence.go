package model

import (
	"time"

	"github.com/google/uuid"
)

// FiscalSequence is the per document-type atomic counter behind NCF issuance.
// One row per (company, doc_type). CurrentNumber is mutated only by a single
// atomic increment-and-return statement — never read-then-written in two steps.
type FiscalSequence struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_doc_type"`
	// DocType is the two-digit DGII voucher type code ("01" credito fiscal,
	// "02" consumo, "04" nota de credito, ...).
	DocType string `gorm:"type:varchar(4);not null;uniqueIndex:idx_company_doc_type"`
	// Prefix is the series letter prepended to the formatted NCF.
	Prefix        string `gorm:"type:varchar(4);not null;default:'B'"`
	CurrentNumber int64  `gorm:"not null;default:0"`
	// MaxNumber caps the sequence; nil means unbounded.
	MaxNumber *int64
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
