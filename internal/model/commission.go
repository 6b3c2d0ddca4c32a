package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionStatus tracks payout bookkeeping, independent of the owning sale's status.
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

var CommissionStatuses = []CommissionStatus{CommissionStatusPending, CommissionStatusPaid, CommissionStatusCancelled}

func (s CommissionStatus) Valid() bool {
	for _, v := range CommissionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Commission is the 1:1 payout record of a sale. Its value fields mirror the
// sale's CommissionValue / TaxRetained / NetCommission at the last recalculation.
type Commission struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SaleID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"sale_id"`
	Sale            *Sale            `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"sale,omitempty"`
	SalespersonID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"salesperson_id"`
	CommissionValue decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"commission_value"`
	TaxRetained     decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"tax_retained"`
	NetValue        decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"net_value"`
	Status          CommissionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentDate     *time.Time       `gorm:"type:date" json:"payment_date"`
	Notes           string           `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
