package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusApproved  SaleStatus = "approved"
	SaleStatusPaid      SaleStatus = "paid"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// SaleStatuses lists every sale status in lifecycle order.
var SaleStatuses = []SaleStatus{SaleStatusPending, SaleStatusApproved, SaleStatusPaid, SaleStatusCancelled}

func (s SaleStatus) Valid() bool {
	for _, v := range SaleStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Sale represents a single sales transaction and its derived commission figures.
// NetValue, CommissionValue, TaxRetained and NetCommission are never user supplied.
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SalespersonID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"salesperson_id"`
	Salesperson     *User           `gorm:"foreignKey:SalespersonID" json:"salesperson,omitempty"`
	ClientName      string          `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail     string          `gorm:"type:varchar(255)" json:"client_email"`
	ClientPhone     string          `gorm:"type:varchar(50)" json:"client_phone"`
	GrossValue      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_value"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount"`
	NetValue        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_value"`
	CommissionPct   decimal.Decimal `gorm:"column:commission_pct;type:decimal(5,2);not null" json:"commission_pct"`
	CommissionValue decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"commission_value"`
	TaxRetained     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_retained"`
	NetCommission   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_commission"`
	Status          SaleStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SaleDate        time.Time       `gorm:"type:date;not null;index" json:"sale_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
