package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commission-backend/internal/model"
)

type MarketingRepository interface {
	Create(ctx context.Context, pkg *model.MarketingPackage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MarketingPackage, error)
	List(ctx context.Context, filter MarketingFilter) ([]model.MarketingPackage, int64, error)
	FindAll(ctx context.Context, filter MarketingFilter) ([]model.MarketingPackage, error)
	Update(ctx context.Context, pkg *model.MarketingPackage) error
}

type marketingRepository struct {
	db *gorm.DB
}

func NewMarketingRepository(db *gorm.DB) MarketingRepository {
	return &marketingRepository{db: db}
}

func (r *marketingRepository) Create(ctx context.Context, pkg *model.MarketingPackage) error {
	return translateError(GetDB(ctx, r.db).Create(pkg).Error)
}

func (r *marketingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MarketingPackage, error) {
	var pkg model.MarketingPackage
	if err := GetDB(ctx, r.db).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &pkg, nil
}

func (r *marketingRepository) filtered(ctx context.Context, f MarketingFilter) *gorm.DB {
	q := GetDB(ctx, r.db).Model(&model.MarketingPackage{})
	if f.SalespersonID != nil {
		q = q.Where("salesperson_id = ?", *f.SalespersonID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Tier != "" {
		q = q.Where("tier = ?", f.Tier)
	}
	if f.ReferenceMonth != "" {
		q = q.Where("reference_month = ?", f.ReferenceMonth)
	}
	return q
}

func (r *marketingRepository) List(ctx context.Context, f MarketingFilter) ([]model.MarketingPackage, int64, error) {
	var out []model.MarketingPackage
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	q := paginate(r.filtered(ctx, f), f.Page, f.Limit)
	if err := q.Order("reference_month desc, created_at desc").Find(&out).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return out, total, nil
}

func (r *marketingRepository) FindAll(ctx context.Context, f MarketingFilter) ([]model.MarketingPackage, error) {
	var out []model.MarketingPackage
	if err := r.filtered(ctx, f).Order("reference_month desc, created_at desc").Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (r *marketingRepository) Update(ctx context.Context, pkg *model.MarketingPackage) error {
	return translateError(GetDB(ctx, r.db).Save(pkg).Error)
}
