package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commission-backend/internal/model"
)

type CommissionRepository interface {
	Create(ctx context.Context, commission *model.Commission) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Commission, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Commission, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Commission, error)
	List(ctx context.Context, filter CommissionFilter) ([]model.Commission, int64, error)
	FindAll(ctx context.Context, filter CommissionFilter) ([]model.Commission, error)
	Update(ctx context.Context, commission *model.Commission) error
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(ctx context.Context, commission *model.Commission) error {
	return translateError(GetDB(ctx, r.db).Omit("Sale").Create(commission).Error)
}

func (r *commissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Commission, error) {
	var c model.Commission
	if err := GetDB(ctx, r.db).Preload("Sale").First(&c, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *commissionRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Commission, error) {
	var c model.Commission
	if err := GetDB(ctx, r.db).First(&c, "sale_id = ?", saleID).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *commissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Commission, error) {
	var out []model.Commission
	if len(ids) == 0 {
		return out, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (r *commissionRepository) filtered(ctx context.Context, f CommissionFilter) *gorm.DB {
	q := GetDB(ctx, r.db).Model(&model.Commission{})
	if f.SalespersonID != nil {
		q = q.Where("salesperson_id = ?", *f.SalespersonID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

func (r *commissionRepository) List(ctx context.Context, f CommissionFilter) ([]model.Commission, int64, error) {
	var out []model.Commission
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	q := paginate(r.filtered(ctx, f).Preload("Sale"), f.Page, f.Limit)
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return out, total, nil
}

func (r *commissionRepository) FindAll(ctx context.Context, f CommissionFilter) ([]model.Commission, error) {
	var out []model.Commission
	if err := r.filtered(ctx, f).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (r *commissionRepository) Update(ctx context.Context, commission *model.Commission) error {
	return translateError(GetDB(ctx, r.db).Omit("Sale").Save(commission).Error)
}

func (r *commissionRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return translateError(GetDB(ctx, r.db).Where("sale_id = ?", saleID).Delete(&model.Commission{}).Error)
}
