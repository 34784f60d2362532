package repository

import (
	"context"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, companyID uuid.UUID, name string) ([]model.Customer, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ? AND active = true", companyID, id).
		First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, companyID uuid.UUID, name string) ([]model.Customer, error) {
	q := r.db.WithContext(ctx).Where("company_id = ? AND active = true", companyID)
	if name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}
	var customers []model.Customer
	err := q.Order("name ASC").Limit(200).Find(&customers).Error
	return customers, err
}
