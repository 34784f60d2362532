package repository

import (
	"context"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FiscalSequenceRepository interface {
	Create(ctx context.Context, s *model.FiscalSequence) error
	List(ctx context.Context, companyID uuid.UUID) ([]model.FiscalSequence, error)
	// IssueNext atomically increments and returns the sequence row for
	// (company, doc_type). Returns gorm.ErrRecordNotFound when no active,
	// non-exhausted sequence matches.
	IssueNext(ctx context.Context, companyID uuid.UUID, docType string) (*model.FiscalSequence, error)
	IssueNextTx(tx *gorm.DB, companyID uuid.UUID, docType string) (*model.FiscalSequence, error)
}

type fiscalSequenceRepo struct{ db *gorm.DB }

func NewFiscalSequenceRepository(db *gorm.DB) FiscalSequenceRepository {
	return &fiscalSequenceRepo{db: db}
}

func (r *fiscalSequenceRepo) Create(ctx context.Context, s *model.FiscalSequence) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *fiscalSequenceRepo) List(ctx context.Context, companyID uuid.UUID) ([]model.FiscalSequence, error) {
	var seqs []model.FiscalSequence
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("doc_type ASC").
		Find(&seqs).Error
	return seqs, err
}

func (r *fiscalSequenceRepo) IssueNext(ctx context.Context, companyID uuid.UUID, docType string) (*model.FiscalSequence, error) {
	return issueNext(r.db.WithContext(ctx), companyID, docType)
}

func (r *fiscalSequenceRepo) IssueNextTx(tx *gorm.DB, companyID uuid.UUID, docType string) (*model.FiscalSequence, error) {
	return issueNext(tx, companyID, docType)
}

// issueNext folds the increment and the read into one statement — two
// concurrent requests for the same doc_type can never observe the same number.
func issueNext(db *gorm.DB, companyID uuid.UUID, docType string) (*model.FiscalSequence, error) {
	var seq model.FiscalSequence
	res := db.Raw(`
		UPDATE fiscal_sequences
		SET current_number = current_number + 1, updated_at = NOW()
		WHERE company_id = ? AND doc_type = ? AND active = true
		  AND (max_number IS NULL OR current_number < max_number)
		RETURNING *`, companyID, docType).Scan(&seq)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &seq, nil
}
