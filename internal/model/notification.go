package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	NotificationSaleCreated    = "sale_created"
	NotificationPackageCreated = "marketing_package_created"
)

// Notification is pushed to connected dashboards.
type Notification struct {
	Type          string          `json:"type"`
	Message       string          `json:"message"`
	SalespersonID string          `json:"salesperson_id"`
	Value         decimal.Decimal `json:"value"`
	Timestamp     time.Time       `json:"timestamp"`
}
