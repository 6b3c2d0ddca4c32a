package commission

import (
	"time"

	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

// DiffSales lists every audited field whose value differs between old and updated.
func DiffSales(old, updated model.Sale) []model.FieldDiff {
	var diffs []model.FieldDiff
	str := func(field, a, b string) {
		if a != b {
			diffs = append(diffs, model.FieldDiff{Field: field, Old: a, New: b})
		}
	}
	dec := func(field string, a, b decimal.Decimal) {
		if !a.Equal(b) {
			diffs = append(diffs, model.FieldDiff{Field: field, Old: a.StringFixed(2), New: b.StringFixed(2)})
		}
	}

	str("client_name", old.ClientName, updated.ClientName)
	str("client_email", old.ClientEmail, updated.ClientEmail)
	str("client_phone", old.ClientPhone, updated.ClientPhone)
	dec("gross_value", old.GrossValue, updated.GrossValue)
	dec("discount", old.Discount, updated.Discount)
	dec("net_value", old.NetValue, updated.NetValue)
	dec("commission_pct", old.CommissionPct, updated.CommissionPct)
	dec("commission_value", old.CommissionValue, updated.CommissionValue)
	dec("tax_retained", old.TaxRetained, updated.TaxRetained)
	dec("net_commission", old.NetCommission, updated.NetCommission)
	str("status", string(old.Status), string(updated.Status))
	str("sale_date", old.SaleDate.Format("2006-01-02"), updated.SaleDate.Format("2006-01-02"))
	str("notes", old.Notes, updated.Notes)
	return diffs
}

// DiffCommissions lists changed payout fields of a commission record.
func DiffCommissions(old, updated model.Commission) []model.FieldDiff {
	var diffs []model.FieldDiff
	if old.Status != updated.Status {
		diffs = append(diffs, model.FieldDiff{Field: "status", Old: string(old.Status), New: string(updated.Status)})
	}
	if a, b := formatDate(old.PaymentDate), formatDate(updated.PaymentDate); a != b {
		diffs = append(diffs, model.FieldDiff{Field: "payment_date", Old: a, New: b})
	}
	if old.Notes != updated.Notes {
		diffs = append(diffs, model.FieldDiff{Field: "notes", Old: old.Notes, New: updated.Notes})
	}
	return diffs
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
