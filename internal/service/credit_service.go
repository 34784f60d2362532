package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/google/uuid"
)

type CreditService interface {
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CreditAccountResponse, error)
	List(ctx context.Context, actor model.Actor, filter dto.CreditFilter) (*dto.CreditListResponse, error)
	RegisterPayment(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.CreditPaymentRequest) (*dto.CreditAccountResponse, error)
}

type creditService struct {
	repo repository.CreditAccountRepository
}

func NewCreditService(repo repository.CreditAccountRepository) CreditService {
	return &creditService{repo: repo}
}

func (s *creditService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.CreditAccountResponse, error) {
	account, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("credit account not found")
	}
	return creditToResponse(account), nil
}

func (s *creditService) List(ctx context.Context, actor model.Actor, filter dto.CreditFilter) (*dto.CreditListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	accounts, total, err := s.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CreditAccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, *creditToResponse(&accounts[i]))
	}
	return &dto.CreditListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// RegisterPayment applies a partial or final payment against an account.
// Overpayment is rejected rather than turned into a balance in favor.
func (s *creditService) RegisterPayment(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.CreditPaymentRequest) (*dto.CreditAccountResponse, error) {
	account, err := s.repo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, apierror.NotFound("credit account not found")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.BadRequest(apierror.CodeValidation, "payment amount must be positive")
	}
	if req.Amount.GreaterThan(account.Balance) {
		return nil, apierror.BadRequest(apierror.CodeValidation,
			fmt.Sprintf("payment %s exceeds the outstanding balance %s",
				req.Amount.StringFixed(2), account.Balance.StringFixed(2)))
	}

	account.Paid = account.Paid.Add(req.Amount)
	account.Balance = account.Balance.Sub(req.Amount)
	if account.Balance.IsZero() {
		account.Status = model.CreditStatusPaid
	} else if account.DueDate != nil && account.DueDate.Before(time.Now()) {
		account.Status = model.CreditStatusOverdue
	} else {
		account.Status = model.CreditStatusPartial
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return creditToResponse(account), nil
}

func creditToResponse(account *model.CreditAccount) *dto.CreditAccountResponse {
	resp := &dto.CreditAccountResponse{
		ID:        account.ID.String(),
		SaleID:    account.SaleID.String(),
		Total:     account.Total,
		Paid:      account.Paid,
		Balance:   account.Balance,
		Status:    account.Status,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
	if account.Sale != nil {
		resp.InvoiceNo = account.Sale.InvoiceNo
	}
	if account.CustomerID != nil {
		cid := account.CustomerID.String()
		resp.CustomerID = &cid
	}
	if account.Customer != nil {
		resp.CustomerName = account.Customer.Name
	}
	if account.DueDate != nil {
		due := account.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}
