package service

import (
	"context"
	"testing"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/apierror"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCreditAccount(repo *stubCreditRepo, companyID uuid.UUID, total int64, due *time.Time) *model.CreditAccount {
	account := &model.CreditAccount{
		ID:        uuid.New(),
		CompanyID: companyID,
		SaleID:    uuid.New(),
		Total:     decimal.NewFromInt(total),
		Paid:      decimal.Zero,
		Balance:   decimal.NewFromInt(total),
		DueDate:   due,
		Status:    model.CreditStatusOpen,
	}
	repo.accounts[account.ID] = account
	return account
}

func TestRegisterPayment_Partial(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	due := time.Now().AddDate(0, 0, 15)
	account := seedCreditAccount(repo, actor.CompanyID, 500, &due)

	resp, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, "200", resp.Paid.String())
	assert.Equal(t, "300", resp.Balance.String())
	assert.Equal(t, model.CreditStatusPartial, resp.Status)
}

func TestRegisterPayment_Full(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	due := time.Now().AddDate(0, 0, 15)
	account := seedCreditAccount(repo, actor.CompanyID, 500, &due)

	_, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	resp, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, resp.Balance.IsZero())
	assert.Equal(t, model.CreditStatusPaid, resp.Status)
}

func TestRegisterPayment_Overpay(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	account := seedCreditAccount(repo, actor.CompanyID, 100, nil)

	_, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(150),
	})
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.CodeValidation, apiErr.Code)
	assert.Equal(t, "100", repo.accounts[account.ID].Balance.String())
}

func TestRegisterPayment_NonPositive(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	account := seedCreditAccount(repo, actor.CompanyID, 100, nil)

	_, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.Zero,
	})
	assert.Error(t, err)
}

func TestRegisterPayment_PastDueStaysOverdue(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	due := time.Now().AddDate(0, 0, -3)
	account := seedCreditAccount(repo, actor.CompanyID, 400, &due)

	// a partial payment on a past-due account does not clear the overdue flag
	resp, err := svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CreditStatusOverdue, resp.Status)

	// paying it off does
	resp, err = svc.RegisterPayment(context.Background(), actor, account.ID, dto.CreditPaymentRequest{
		Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CreditStatusPaid, resp.Status)
}

func TestMarkOverdue_Sweep(t *testing.T) {
	repo := newStubCreditRepo()
	companyID := uuid.New()

	past := time.Now().AddDate(0, 0, -1)
	future := time.Now().AddDate(0, 0, 10)
	late := seedCreditAccount(repo, companyID, 100, &past)
	current := seedCreditAccount(repo, companyID, 100, &future)

	n, err := repo.MarkOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.CreditStatusOverdue, repo.accounts[late.ID].Status)
	assert.Equal(t, model.CreditStatusOpen, repo.accounts[current.ID].Status)
}

func TestListCredits_FilterByStatus(t *testing.T) {
	repo := newStubCreditRepo()
	svc := NewCreditService(repo)
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}

	open := seedCreditAccount(repo, actor.CompanyID, 100, nil)
	paid := seedCreditAccount(repo, actor.CompanyID, 200, nil)
	paid.Status = model.CreditStatusPaid

	resp, err := svc.List(context.Background(), actor, dto.CreditFilter{Status: model.CreditStatusOpen})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, open.ID.String(), resp.Data[0].ID)
}
