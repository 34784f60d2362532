package service

import (
	"context"
	"errors"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"gorm.io/gorm"
)

// FiscalService administers NCF sequences. Issuance during settlement goes
// through the repository directly inside the sale transaction; NextNCF here
// serves standalone consumers (e.g. credit notes typed by hand).
type FiscalService interface {
	NextNCF(ctx context.Context, actor model.Actor, req dto.NextNCFRequest) (*dto.NextNCFResponse, error)
	CreateSequence(ctx context.Context, actor model.Actor, req dto.CreateSequenceRequest) (*dto.SequenceResponse, error)
	ListSequences(ctx context.Context, actor model.Actor) ([]dto.SequenceResponse, error)
}

type fiscalService struct {
	repo repository.FiscalSequenceRepository
}

func NewFiscalService(repo repository.FiscalSequenceRepository) FiscalService {
	return &fiscalService{repo: repo}
}

func (s *fiscalService) NextNCF(ctx context.Context, actor model.Actor, req dto.NextNCFRequest) (*dto.NextNCFResponse, error) {
	seq, err := s.repo.IssueNext(ctx, actor.CompanyID, req.DocType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.BadRequest(apierror.CodeNCFSequenceUnavailable,
				"no active fiscal sequence for doc type "+req.DocType)
		}
		return nil, err
	}
	return &dto.NextNCFResponse{
		SequenceID:    seq.ID.String(),
		NCF:           FormatNCF(seq),
		CurrentNumber: seq.CurrentNumber,
	}, nil
}

func (s *fiscalService) CreateSequence(ctx context.Context, actor model.Actor, req dto.CreateSequenceRequest) (*dto.SequenceResponse, error) {
	seq := &model.FiscalSequence{
		CompanyID: actor.CompanyID,
		DocType:   req.DocType,
		Prefix:    "B",
		MaxNumber: req.MaxNumber,
		Active:    true,
	}
	if req.Prefix != "" {
		seq.Prefix = req.Prefix
	}
	if err := s.repo.Create(ctx, seq); err != nil {
		return nil, err
	}
	return sequenceToResponse(seq), nil
}

func (s *fiscalService) ListSequences(ctx context.Context, actor model.Actor) ([]dto.SequenceResponse, error) {
	seqs, err := s.repo.List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SequenceResponse, 0, len(seqs))
	for i := range seqs {
		out = append(out, *sequenceToResponse(&seqs[i]))
	}
	return out, nil
}

func sequenceToResponse(seq *model.FiscalSequence) *dto.SequenceResponse {
	return &dto.SequenceResponse{
		ID:            seq.ID.String(),
		DocType:       seq.DocType,
		Prefix:        seq.Prefix,
		CurrentNumber: seq.CurrentNumber,
		MaxNumber:     seq.MaxNumber,
		Active:        seq.Active,
	}
}
