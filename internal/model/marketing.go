package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PackageTier enum constants
type PackageTier string

const (
	TierBronze  PackageTier = "bronze"
	TierPrata   PackageTier = "prata"
	TierOuro    PackageTier = "ouro"
	TierDiamond PackageTier = "diamante"
)

// PackageTiers lists tiers from cheapest to most expensive.
var PackageTiers = []PackageTier{TierBronze, TierPrata, TierOuro, TierDiamond}

type PackageStatus string

const (
	PackageStatusPending  PackageStatus = "pending"
	PackageStatusApproved PackageStatus = "approved"
)

// CommissionSplit overrides the default marketing rate with an explicit
// percentage divided evenly among the listed beneficiaries (salesperson ids).
type CommissionSplit struct {
	Percentage    decimal.Decimal `json:"percentage"`
	Beneficiaries []string        `json:"beneficiaries"`
}

// MarketingPackage is a tiered, non-sale revenue item. Its commission is never
// persisted; it is resolved on demand.
type MarketingPackage struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber        string              `gorm:"type:varchar(6);not null;index" json:"order_number"`
	ClientName         string              `gorm:"type:varchar(255);not null" json:"client_name"`
	ReferenceMonth     string              `gorm:"type:varchar(7);not null;index" json:"reference_month"` // YYYY-MM
	Tier               PackageTier         `gorm:"type:varchar(20);not null" json:"tier"`
	Value              decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"value"`
	SalespersonID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"salesperson_id"`
	Status             PackageStatus       `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SplitPercentage    decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"-"`
	SplitBeneficiaries datatypes.JSON      `gorm:"type:jsonb" json:"-"`
	CreatedAt          time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Split decodes the stored split configuration. It returns nil when the package
// uses the default rate.
func (p MarketingPackage) Split() (*CommissionSplit, error) {
	if !p.SplitPercentage.Valid {
		return nil, nil
	}
	split := &CommissionSplit{Percentage: p.SplitPercentage.Decimal}
	if len(p.SplitBeneficiaries) > 0 {
		if err := json.Unmarshal(p.SplitBeneficiaries, &split.Beneficiaries); err != nil {
			return nil, fmt.Errorf("invalid split beneficiaries: %w", err)
		}
	}
	return split, nil
}

// SetSplit stores split on the package; nil clears it.
func (p *MarketingPackage) SetSplit(split *CommissionSplit) error {
	if split == nil {
		p.SplitPercentage = decimal.NullDecimal{}
		p.SplitBeneficiaries = nil
		return nil
	}
	raw, err := json.Marshal(split.Beneficiaries)
	if err != nil {
		return err
	}
	p.SplitPercentage = decimal.NewNullDecimal(split.Percentage)
	p.SplitBeneficiaries = datatypes.JSON(raw)
	return nil
}
