package commission

import (
	"testing"
	"time"

	"commission-backend/internal/model"
)

func TestDiffSales(t *testing.T) {
	old := computedSale(t, "1000", "0", "10")
	updated, err := Recalculate(old, FinancialPatch{GrossValue: decPtr("2000")}, taxAt1015())
	if err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}
	updated.Notes = "renegotiated"

	diffs := DiffSales(old, updated)
	got := map[string]model.FieldDiff{}
	for _, d := range diffs {
		got[d.Field] = d
	}
	for _, field := range []string{"gross_value", "net_value", "commission_value", "tax_retained", "net_commission", "notes"} {
		if _, ok := got[field]; !ok {
			t.Errorf("missing diff for %s", field)
		}
	}
	if len(diffs) != 6 {
		t.Errorf("got %d diffs, want 6: %+v", len(diffs), diffs)
	}
	if g := got["gross_value"]; g.Old != "1000.00" || g.New != "2000.00" {
		t.Errorf("gross_value diff = %+v", g)
	}

	if d := DiffSales(old, old); len(d) != 0 {
		t.Errorf("identical sales produced diffs: %+v", d)
	}
}

func TestDiffCommissions(t *testing.T) {
	old := model.Commission{Status: model.CommissionStatusPending}
	paidAt := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	updated := old
	updated.Status = model.CommissionStatusPaid
	updated.PaymentDate = &paidAt

	diffs := DiffCommissions(old, updated)
	if len(diffs) != 2 {
		t.Fatalf("got %d diffs, want 2: %+v", len(diffs), diffs)
	}
	if diffs[1].Field != "payment_date" || diffs[1].Old != "" || diffs[1].New != "2024-04-01" {
		t.Errorf("payment_date diff = %+v", diffs[1])
	}
}
