package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/config"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/dto"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so runTx executes the closure
// directly, without a real transaction.

// ─── Products ────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, companyID uuid.UUID, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Barcode == barcode && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, companyID uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, companyID, id uuid.UUID) error {
	if p, ok := r.products[id]; ok && p.CompanyID == companyID {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) LowStock(_ context.Context, companyID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID == companyID && p.Active && p.StockQty <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

// LockForUpdateTx returns snapshot copies so BeforeStock/AfterStock reflect
// the values observed at lock time, like the real row-locked SELECT.
func (r *stubProductRepo) LockForUpdateTx(_ *gorm.DB, companyID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.products[id].StockQty += delta
	return nil
}

func (r *stubProductRepo) UpdateCostTx(_ *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	r.products[id].Cost = cost
	return nil
}

// ─── Sales ───────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, companyID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) Summarize(_ context.Context, companyID uuid.UUID, from, to time.Time) (*repository.SalesAggregate, error) {
	agg := &repository.SalesAggregate{
		TotalSold:     decimal.Zero,
		TotalItbis:    decimal.Zero,
		TotalDiscount: decimal.Zero,
		ByStatus:      map[string]int64{},
		ByMethod:      map[string]decimal.Decimal{},
	}
	revenue := map[string]bool{
		model.SaleStatusPaid:            true,
		model.SaleStatusCredit:          true,
		model.SaleStatusPartialRefunded: true,
		model.SaleStatusRefunded:        true,
	}
	for _, s := range r.sales {
		if s.CompanyID != companyID || s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		agg.ByStatus[s.Status]++
		if !revenue[s.Status] {
			continue
		}
		agg.SaleCount++
		agg.TotalSold = agg.TotalSold.Add(s.Total)
		agg.TotalItbis = agg.TotalItbis.Add(s.ItbisTotal)
		agg.TotalDiscount = agg.TotalDiscount.Add(s.DiscountTotal)
		if s.PaymentMethod != nil {
			prev := agg.ByMethod[*s.PaymentMethod]
			agg.ByMethod[*s.PaymentMethod] = prev.Add(s.Total)
		}
	}
	return agg, nil
}

// ─── Stock movements ─────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, companyID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.CompanyID != companyID {
			continue
		}
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.RefType != "" && m.RefType != filter.RefType {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) SumRefundedBySale(_ context.Context, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	return r.SumRefundedBySaleTx(nil, companyID, saleID)
}

func (r *stubMovementRepo) SumRefundedBySaleTx(_ *gorm.DB, companyID, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, m := range r.movements {
		if m.CompanyID == companyID && m.RefType == model.MovementRefRefund &&
			m.RefID != nil && *m.RefID == saleID {
			out[m.ProductID] += m.QtyChange
		}
	}
	return out, nil
}

func (r *stubMovementRepo) byType(refType string) []*model.StockMovement {
	var out []*model.StockMovement
	for _, m := range r.movements {
		if m.RefType == refType {
			out = append(out, m)
		}
	}
	return out
}

// ─── Fiscal sequences ────────────────────────────────────────────────────────

type stubFiscalRepo struct {
	seqs map[string]*model.FiscalSequence // keyed by doc type
}

var _ repository.FiscalSequenceRepository = (*stubFiscalRepo)(nil)

func newStubFiscalRepo() *stubFiscalRepo {
	return &stubFiscalRepo{seqs: make(map[string]*model.FiscalSequence)}
}

func (r *stubFiscalRepo) Create(_ context.Context, s *model.FiscalSequence) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.seqs[s.DocType] = s
	return nil
}

func (r *stubFiscalRepo) List(_ context.Context, _ uuid.UUID) ([]model.FiscalSequence, error) {
	var out []model.FiscalSequence
	for _, s := range r.seqs {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubFiscalRepo) IssueNext(_ context.Context, companyID uuid.UUID, docType string) (*model.FiscalSequence, error) {
	return r.IssueNextTx(nil, companyID, docType)
}

func (r *stubFiscalRepo) IssueNextTx(_ *gorm.DB, companyID uuid.UUID, docType string) (*model.FiscalSequence, error) {
	seq, ok := r.seqs[docType]
	if !ok || seq.CompanyID != companyID || !seq.Active {
		return nil, gorm.ErrRecordNotFound
	}
	if seq.MaxNumber != nil && seq.CurrentNumber >= *seq.MaxNumber {
		return nil, gorm.ErrRecordNotFound
	}
	seq.CurrentNumber++
	return seq, nil
}

// ─── Credit accounts ─────────────────────────────────────────────────────────

type stubCreditRepo struct {
	accounts map[uuid.UUID]*model.CreditAccount
}

var _ repository.CreditAccountRepository = (*stubCreditRepo)(nil)

func newStubCreditRepo() *stubCreditRepo {
	return &stubCreditRepo{accounts: make(map[uuid.UUID]*model.CreditAccount)}
}

func (r *stubCreditRepo) CreateTx(_ *gorm.DB, c *model.CreditAccount) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.accounts[c.ID] = c
	return nil
}

func (r *stubCreditRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.CreditAccount, error) {
	c, ok := r.accounts[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCreditRepo) FindBySaleID(_ context.Context, companyID, saleID uuid.UUID) (*model.CreditAccount, error) {
	for _, c := range r.accounts {
		if c.CompanyID == companyID && c.SaleID == saleID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCreditRepo) Update(_ context.Context, c *model.CreditAccount) error {
	r.accounts[c.ID] = c
	return nil
}

func (r *stubCreditRepo) DeleteBySaleTx(_ *gorm.DB, companyID, saleID uuid.UUID) error {
	for id, c := range r.accounts {
		if c.CompanyID == companyID && c.SaleID == saleID {
			delete(r.accounts, id)
		}
	}
	return nil
}

func (r *stubCreditRepo) List(_ context.Context, companyID uuid.UUID, filter dto.CreditFilter) ([]model.CreditAccount, int64, error) {
	var out []model.CreditAccount
	for _, c := range r.accounts {
		if c.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCreditRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, c := range r.accounts {
		if (c.Status == model.CreditStatusOpen || c.Status == model.CreditStatusPartial) &&
			c.DueDate != nil && c.DueDate.Before(now) {
			c.Status = model.CreditStatusOverdue
			n++
		}
	}
	return n, nil
}

// ─── Customers ───────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.CompanyID != companyID || !c.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, companyID uuid.UUID, name string) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.Active &&
			(name == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(name))) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ─── Purchase orders ─────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	orders map[uuid.UUID]*model.PurchaseOrder
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

func (r *stubPurchaseRepo) Create(_ context.Context, p *model.PurchaseOrder) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PurchaseOrderID = p.ID
	}
	p.CreatedAt = time.Now()
	r.orders[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.PurchaseOrder, error) {
	p, ok := r.orders[id]
	if !ok || p.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) SaveTx(_ *gorm.DB, p *model.PurchaseOrder) error {
	r.orders[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) List(_ context.Context, companyID uuid.UUID, filter dto.PurchaseFilter) ([]model.PurchaseOrder, int64, error) {
	var out []model.PurchaseOrder
	for _, p := range r.orders {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, companyID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.CompanyID == companyID && (includeInactive || u.Active) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

// ─── Shared fixtures ─────────────────────────────────────────────────────────

type saleStubs struct {
	sales     *stubSaleRepo
	products  *stubProductRepo
	movements *stubMovementRepo
	fiscal    *stubFiscalRepo
	credits   *stubCreditRepo
	customers *stubCustomerRepo
}

func buildSaleSvc() (SaleService, *saleStubs, model.Actor) {
	stubs := &saleStubs{
		sales:     newStubSaleRepo(),
		products:  newStubProductRepo(),
		movements: &stubMovementRepo{},
		fiscal:    newStubFiscalRepo(),
		credits:   newStubCreditRepo(),
		customers: newStubCustomerRepo(),
	}
	actor := model.Actor{CompanyID: uuid.New(), UserID: uuid.New()}
	cfg := &config.Config{CreditDueDays: 30, AlertEmail: "alerts@example.com"}
	svc := NewSaleService(stubs.sales, stubs.products, stubs.movements, stubs.fiscal,
		stubs.credits, stubs.customers, nil, cfg)
	return svc, stubs, actor
}

func seedProduct(repo *stubProductRepo, companyID uuid.UUID, name, barcode string, price float64, stock, minStock int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		CompanyID: companyID,
		Barcode:   barcode,
		Name:      name,
		Category:  "general",
		Cost:      decimal.NewFromFloat(price / 2),
		Price:     decimal.NewFromFloat(price),
		StockQty:  stock,
		MinStock:  minStock,
		Active:    true,
	}
	repo.products[p.ID] = p
	return p
}
