package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
)

// Business holds the commission rules. Rates here are percentages except the
// tax config, whose rates are fractions.
type Business struct {
	Tax                    commission.TaxConfig
	PackagePrices          map[model.PackageTier]decimal.Decimal
	SaleCommissionPct      decimal.Decimal
	MarketingFirstMonthPct decimal.Decimal
	MarketingContinuityPct decimal.Decimal
	MonthlySalesGoal       decimal.Decimal
}

// MarketingRate returns the default marketing rate, in percent, for the
// named rate kind ("first_month" or "continuity").
func (b Business) MarketingRate(kind string) (decimal.Decimal, error) {
	switch kind {
	case "", RateFirstMonth:
		return b.MarketingFirstMonthPct, nil
	case RateContinuity:
		return b.MarketingContinuityPct, nil
	}
	return decimal.Zero, fmt.Errorf("unknown marketing rate %q", kind)
}

const (
	RateFirstMonth = "first_month"
	RateContinuity = "continuity"
)

// businessFile mirrors configs/commission.yaml. All rates are in percent.
type businessFile struct {
	Taxes struct {
		IncomeTax *float64 `yaml:"income_tax"`
		PIS       *float64 `yaml:"pis"`
		COFINS    *float64 `yaml:"cofins"`
		CSLL      *float64 `yaml:"csll"`
		ISS       *float64 `yaml:"iss"`
	} `yaml:"taxes"`
	Packages   map[string]float64 `yaml:"packages"`
	Commission struct {
		Sale                *float64 `yaml:"sale"`
		MarketingFirstMonth *float64 `yaml:"marketing_first_month"`
		MarketingContinuity *float64 `yaml:"marketing_continuity"`
	} `yaml:"commission"`
	MonthlySalesGoal *float64 `yaml:"monthly_sales_goal"`
}

// DefaultBusiness returns the built-in commission rules.
func DefaultBusiness() Business {
	return Business{
		Tax: commission.DefaultTaxConfig(),
		PackagePrices: map[model.PackageTier]decimal.Decimal{
			model.TierBronze:  decimal.NewFromInt(120),
			model.TierPrata:   decimal.NewFromInt(220),
			model.TierOuro:    decimal.NewFromInt(420),
			model.TierDiamond: decimal.NewFromInt(720),
		},
		SaleCommissionPct:      decimal.NewFromInt(3),
		MarketingFirstMonthPct: decimal.NewFromInt(10),
		MarketingContinuityPct: decimal.NewFromInt(5),
		MonthlySalesGoal:       decimal.NewFromInt(5000),
	}
}

// LoadBusiness reads the YAML rules file over the defaults. A missing file
// yields the defaults.
func LoadBusiness(path string) (Business, error) {
	b := DefaultBusiness()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Commission config %s not found, using defaults", path)
		return b, nil
	}
	if err != nil {
		return b, err
	}
	return ParseBusiness(data)
}

// ParseBusiness decodes a YAML rules document over the defaults.
func ParseBusiness(data []byte) (Business, error) {
	b := DefaultBusiness()
	var f businessFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return b, fmt.Errorf("invalid commission config: %w", err)
	}

	fraction := func(dst *decimal.Decimal, pct *float64) {
		if pct != nil {
			*dst = decimal.NewFromFloat(*pct).Div(decimal.NewFromInt(100))
		}
	}
	fraction(&b.Tax.IncomeTax, f.Taxes.IncomeTax)
	fraction(&b.Tax.PIS, f.Taxes.PIS)
	fraction(&b.Tax.COFINS, f.Taxes.COFINS)
	fraction(&b.Tax.CSLL, f.Taxes.CSLL)
	fraction(&b.Tax.ISS, f.Taxes.ISS)
	if err := b.Tax.Validate(); err != nil {
		return b, fmt.Errorf("invalid commission config: %w", err)
	}

	for name, price := range f.Packages {
		tier := model.PackageTier(name)
		if _, known := b.PackagePrices[tier]; !known {
			return b, fmt.Errorf("invalid commission config: unknown package tier %q", name)
		}
		if price <= 0 {
			return b, fmt.Errorf("invalid commission config: price of %s must be positive", name)
		}
		b.PackagePrices[tier] = decimal.NewFromFloat(price)
	}

	percent := func(dst *decimal.Decimal, v *float64, name string) error {
		if v == nil {
			return nil
		}
		if *v < 0 || *v > 100 {
			return fmt.Errorf("invalid commission config: %s must be within [0, 100]", name)
		}
		*dst = decimal.NewFromFloat(*v)
		return nil
	}
	if err := percent(&b.SaleCommissionPct, f.Commission.Sale, "commission.sale"); err != nil {
		return b, err
	}
	if err := percent(&b.MarketingFirstMonthPct, f.Commission.MarketingFirstMonth, "commission.marketing_first_month"); err != nil {
		return b, err
	}
	if err := percent(&b.MarketingContinuityPct, f.Commission.MarketingContinuity, "commission.marketing_continuity"); err != nil {
		return b, err
	}
	if f.MonthlySalesGoal != nil {
		b.MonthlySalesGoal = decimal.NewFromFloat(*f.MonthlySalesGoal)
	}
	return b, nil
}
