package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a read-only reference for the POS engine; sales snapshot the
// name and RNC at creation time so later edits do not rewrite history.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"index;not null"`
	// RNC is the fiscal taxpayer ID required on FISCAL invoices.
	RNC       *string `gorm:"type:varchar(20);column:rnc;index"`
	Phone     *string
	Email     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
