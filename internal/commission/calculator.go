package commission

import (
	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

// SaleValues are the four derived monetary fields of a sale.
type SaleValues struct {
	NetValue        decimal.Decimal `json:"net_value"`
	CommissionValue decimal.Decimal `json:"commission_value"`
	TaxRetained     decimal.Decimal `json:"tax_retained"`
	NetCommission   decimal.Decimal `json:"net_commission"`
}

// Compute derives net value, commission, retained tax and net commission.
// Each derived value is rounded to cents from unrounded intermediates, so
// repeated recalculation from the same inputs never drifts.
func Compute(gross, discount, commissionPct decimal.Decimal, tax TaxConfig) (SaleValues, error) {
	switch {
	case !gross.IsPositive():
		return SaleValues{}, &PreconditionError{Reason: "gross value must be greater than zero"}
	case discount.IsNegative():
		return SaleValues{}, &PreconditionError{Reason: "discount cannot be negative"}
	case commissionPct.IsNegative() || commissionPct.GreaterThan(hundred):
		return SaleValues{}, &PreconditionError{Reason: "commission percentage must be within [0, 100]"}
	case discount.GreaterThanOrEqual(gross):
		return SaleValues{}, &PreconditionError{Reason: "discount must be less than gross value"}
	}

	net := gross.Sub(discount)
	commissionValue := net.Mul(commissionPct).Div(hundred)
	taxRetained := commissionValue.Mul(tax.CompositeRate())
	netCommission := commissionValue.Sub(taxRetained)

	return SaleValues{
		NetValue:        net.Round(2),
		CommissionValue: commissionValue.Round(2),
		TaxRetained:     taxRetained.Round(2),
		NetCommission:   netCommission.Round(2),
	}, nil
}

// FinancialPatch carries the financial inputs of a sale edit; nil means unchanged.
type FinancialPatch struct {
	GrossValue    *decimal.Decimal
	Discount      *decimal.Decimal
	CommissionPct *decimal.Decimal
}

// Empty reports whether the patch touches no financial input.
func (p FinancialPatch) Empty() bool {
	return p.GrossValue == nil && p.Discount == nil && p.CommissionPct == nil
}

// Merge resolves the effective inputs, falling back to the stored sale for
// every field the patch leaves out.
func (p FinancialPatch) Merge(sale model.Sale) (gross, discount, pct decimal.Decimal) {
	gross, discount, pct = sale.GrossValue, sale.Discount, sale.CommissionPct
	if p.GrossValue != nil {
		gross = *p.GrossValue
	}
	if p.Discount != nil {
		discount = *p.Discount
	}
	if p.CommissionPct != nil {
		pct = *p.CommissionPct
	}
	return gross, discount, pct
}

// Apply writes inputs and derived values onto sale together.
func Apply(sale *model.Sale, gross, discount, pct decimal.Decimal, v SaleValues) {
	sale.GrossValue = gross
	sale.Discount = discount
	sale.CommissionPct = pct
	sale.NetValue = v.NetValue
	sale.CommissionValue = v.CommissionValue
	sale.TaxRetained = v.TaxRetained
	sale.NetCommission = v.NetCommission
}

// Recalculate returns a copy of sale with the patch merged in and all four
// derived fields recomputed. An empty patch returns the sale unchanged.
func Recalculate(sale model.Sale, patch FinancialPatch, tax TaxConfig) (model.Sale, error) {
	if patch.Empty() {
		return sale, nil
	}
	gross, discount, pct := patch.Merge(sale)
	values, err := Compute(gross, discount, pct, tax)
	if err != nil {
		return sale, err
	}
	Apply(&sale, gross, discount, pct, values)
	return sale, nil
}

// NewCommission builds the pending payout record shadowing sale.
func NewCommission(sale model.Sale) model.Commission {
	c := model.Commission{
		SaleID:        sale.ID,
		SalespersonID: sale.SalespersonID,
		Status:        model.CommissionStatusPending,
	}
	SyncCommission(&c, sale)
	return c
}

// SyncCommission mirrors the sale's commission figures onto c. The commission's
// own status, payment date and notes are left untouched.
func SyncCommission(c *model.Commission, sale model.Sale) {
	c.CommissionValue = sale.CommissionValue
	c.TaxRetained = sale.TaxRetained
	c.NetValue = sale.NetCommission
}
