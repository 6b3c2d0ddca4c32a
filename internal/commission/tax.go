package commission

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxConfig holds the five retention rates applied to a commission, each
// expressed as a fraction (0.015 = 1.5%).
type TaxConfig struct {
	IncomeTax decimal.Decimal `json:"income_tax"`
	PIS       decimal.Decimal `json:"pis"`
	COFINS    decimal.Decimal `json:"cofins"`
	CSLL      decimal.Decimal `json:"csll"`
	ISS       decimal.Decimal `json:"iss"`
}

// DefaultTaxConfig returns the standard Brazilian retention rates.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		IncomeTax: decimal.RequireFromString("0.015"),
		PIS:       decimal.RequireFromString("0.0065"),
		COFINS:    decimal.RequireFromString("0.03"),
		CSLL:      decimal.RequireFromString("0.01"),
		ISS:       decimal.RequireFromString("0.05"),
	}
}

// CompositeRate is the sum of all five rates.
func (c TaxConfig) CompositeRate() decimal.Decimal {
	return c.IncomeTax.Add(c.PIS).Add(c.COFINS).Add(c.CSLL).Add(c.ISS)
}

// Validate checks every rate is within [0,1) and the composite stays below 1.
func (c TaxConfig) Validate() error {
	var errs []string
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"income_tax", c.IncomeTax},
		{"pis", c.PIS},
		{"cofins", c.COFINS},
		{"csll", c.CSLL},
		{"iss", c.ISS},
	} {
		if r.rate.IsNegative() || r.rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			errs = append(errs, fmt.Sprintf("%s rate must be within [0, 1)", r.name))
		}
	}
	if c.CompositeRate().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, "composite tax rate must be below 100%")
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// TaxBreakdown is the retained amount per tax component.
type TaxBreakdown struct {
	IncomeTax decimal.Decimal `json:"income_tax"`
	PIS       decimal.Decimal `json:"pis"`
	COFINS    decimal.Decimal `json:"cofins"`
	CSLL      decimal.Decimal `json:"csll"`
	ISS       decimal.Decimal `json:"iss"`
	Total     decimal.Decimal `json:"total"`
}

// Breakdown splits the retention on commissionValue per component. Total is
// computed from the composite rate, so it may differ from the sum of the
// rounded components by a cent.
func (c TaxConfig) Breakdown(commissionValue decimal.Decimal) TaxBreakdown {
	return TaxBreakdown{
		IncomeTax: commissionValue.Mul(c.IncomeTax).Round(2),
		PIS:       commissionValue.Mul(c.PIS).Round(2),
		COFINS:    commissionValue.Mul(c.COFINS).Round(2),
		CSLL:      commissionValue.Mul(c.CSLL).Round(2),
		ISS:       commissionValue.Mul(c.ISS).Round(2),
		Total:     commissionValue.Mul(c.CompositeRate()).Round(2),
	}
}

func checkRatePct(ratePct decimal.Decimal) error {
	if ratePct.IsNegative() || ratePct.GreaterThanOrEqual(hundred) {
		return &ValidationError{Errors: []string{"tax rate must be within [0, 100)"}}
	}
	return nil
}

// GrossFromNet returns the gross amount that leaves net after retaining ratePct percent.
func GrossFromNet(net, ratePct decimal.Decimal) (decimal.Decimal, error) {
	if err := checkRatePct(ratePct); err != nil {
		return decimal.Zero, err
	}
	keep := decimal.NewFromInt(1).Sub(ratePct.Div(hundred))
	return net.Div(keep).Round(2), nil
}

// NetFromGross returns what remains of gross after retaining ratePct percent.
func NetFromGross(gross, ratePct decimal.Decimal) (decimal.Decimal, error) {
	if err := checkRatePct(ratePct); err != nil {
		return decimal.Zero, err
	}
	keep := decimal.NewFromInt(1).Sub(ratePct.Div(hundred))
	return gross.Mul(keep).Round(2), nil
}
