package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commission-backend/internal/model"
)

// SaleFilter narrows a sale query. Zero fields are ignored; Limit <= 0 disables paging.
type SaleFilter struct {
	SalespersonID *uuid.UUID
	Status        model.SaleStatus
	Search        string // client name or email, case-insensitive
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

// CommissionFilter narrows a commission query by creation date.
type CommissionFilter struct {
	SalespersonID *uuid.UUID
	Status        model.CommissionStatus
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

type MarketingFilter struct {
	SalespersonID  *uuid.UUID
	Status         model.PackageStatus
	Tier           model.PackageTier
	ReferenceMonth string
	Page           int
	Limit          int
}

type AuditFilter struct {
	EntityType string
	EntityID   string
	Page       int
	Limit      int
}

func paginate(q *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		return q
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}

func pageOf[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
