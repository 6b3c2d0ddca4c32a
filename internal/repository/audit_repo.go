package repository

import (
	"context"

	"gorm.io/gorm"

	"commission-backend/internal/model"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
	FindAll(ctx context.Context) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return translateError(GetDB(ctx, r.db).Omit("User").Create(entry).Error)
}

func (r *auditRepository) filtered(ctx context.Context, f AuditFilter) *gorm.DB {
	q := GetDB(ctx, r.db).Model(&model.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	return q
}

func (r *auditRepository) List(ctx context.Context, f AuditFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	q := paginate(r.filtered(ctx, f).Preload("User"), f.Page, f.Limit)
	if err := q.Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return logs, total, nil
}

func (r *auditRepository) FindAll(ctx context.Context) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Order("created_at asc").Find(&logs).Error; err != nil {
		return nil, translateError(err)
	}
	return logs, nil
}
