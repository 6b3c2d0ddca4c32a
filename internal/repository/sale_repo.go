package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commission-backend/internal/model"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	Update(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return translateError(GetDB(ctx, r.db).Create(sale).Error)
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).First(&sale, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &sale, nil
}

func (r *saleRepository) filtered(ctx context.Context, f SaleFilter) *gorm.DB {
	q := GetDB(ctx, r.db).Model(&model.Sale{})
	if f.SalespersonID != nil {
		q = q.Where("salesperson_id = ?", *f.SalespersonID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(client_name) LIKE ? OR LOWER(client_email) LIKE ?)", like, like)
	}
	if f.From != nil {
		q = q.Where("sale_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("sale_date <= ?", *f.To)
	}
	return q
}

func (r *saleRepository) List(ctx context.Context, f SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	q := paginate(r.filtered(ctx, f).Preload("Salesperson"), f.Page, f.Limit)
	if err := q.Order("sale_date desc, created_at desc").Find(&sales).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return sales, total, nil
}

func (r *saleRepository) FindAll(ctx context.Context, f SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	if err := r.filtered(ctx, f).Order("sale_date desc").Find(&sales).Error; err != nil {
		return nil, translateError(err)
	}
	return sales, nil
}

func (r *saleRepository) Update(ctx context.Context, sale *model.Sale) error {
	res := GetDB(ctx, r.db).Omit("Salesperson").Save(sale)
	return translateError(res.Error)
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Sale{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
