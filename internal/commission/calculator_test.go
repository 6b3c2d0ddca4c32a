package commission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := mustDec(s)
	return &d
}

// taxAt1015 sums to 10.15%.
func taxAt1015() TaxConfig {
	return TaxConfig{
		IncomeTax: mustDec("0.015"),
		PIS:       mustDec("0.0065"),
		COFINS:    mustDec("0.03"),
		CSLL:      mustDec("0.01"),
		ISS:       mustDec("0.04"),
	}
}

func TestCompute_EndToEndExample(t *testing.T) {
	v, err := Compute(mustDec("1000.00"), decimal.Zero, mustDec("10"), taxAt1015())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	want := SaleValues{
		NetValue:        mustDec("1000.00"),
		CommissionValue: mustDec("100.00"),
		TaxRetained:     mustDec("10.15"),
		NetCommission:   mustDec("89.85"),
	}
	if !v.NetValue.Equal(want.NetValue) || !v.CommissionValue.Equal(want.CommissionValue) ||
		!v.TaxRetained.Equal(want.TaxRetained) || !v.NetCommission.Equal(want.NetCommission) {
		t.Errorf("Compute() = %+v, want %+v", v, want)
	}
}

func TestCompute_Consistency(t *testing.T) {
	tax := DefaultTaxConfig()
	cent := mustDec("0.01")
	grosses := []string{"0.01", "1.00", "99.99", "123.45", "1000.00", "4999.99", "87654.32"}
	discounts := []string{"0", "0.01", "0.5", "33.33"}
	pcts := []string{"0", "0.5", "3", "7.25", "10", "33.33", "100"}

	for _, g := range grosses {
		for _, dsc := range discounts {
			gross, discount := mustDec(g), mustDec(dsc)
			if discount.GreaterThanOrEqual(gross) {
				continue
			}
			for _, p := range pcts {
				v, err := Compute(gross, discount, mustDec(p), tax)
				if err != nil {
					t.Fatalf("Compute(%s, %s, %s) error = %v", g, dsc, p, err)
				}
				if !v.NetValue.Add(discount).Equal(gross) {
					t.Errorf("net %s + discount %s != gross %s", v.NetValue, discount, gross)
				}
				drift := v.NetCommission.Add(v.TaxRetained).Sub(v.CommissionValue).Abs()
				if drift.GreaterThan(cent) {
					t.Errorf("Compute(%s, %s, %s): net commission + tax differs from commission by %s", g, dsc, p, drift)
				}
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	tax := DefaultTaxConfig()
	first, err := Compute(mustDec("777.77"), mustDec("12.34"), mustDec("3.5"), tax)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compute(mustDec("777.77"), mustDec("12.34"), mustDec("3.5"), tax)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if !again.NetCommission.Equal(first.NetCommission) || !again.TaxRetained.Equal(first.TaxRetained) ||
			!again.CommissionValue.Equal(first.CommissionValue) || !again.NetValue.Equal(first.NetValue) {
			t.Fatalf("run %d drifted: %+v != %+v", i, again, first)
		}
	}
}

func TestCompute_Preconditions(t *testing.T) {
	tax := DefaultTaxConfig()
	tests := []struct {
		name     string
		gross    string
		discount string
		pct      string
		wantErr  bool
	}{
		{"zero gross", "0", "0", "10", true},
		{"negative gross", "-1", "0", "10", true},
		{"negative discount", "100", "-0.01", "10", true},
		{"discount equals gross", "100", "100", "10", true},
		{"discount above gross", "100", "100.01", "10", true},
		{"discount one cent below gross", "100", "99.99", "10", false},
		{"pct above 100", "100", "0", "100.01", true},
		{"negative pct", "100", "0", "-1", true},
		{"pct 0", "100", "0", "0", false},
		{"pct 100", "100", "0", "100", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(mustDec(tt.gross), mustDec(tt.discount), mustDec(tt.pct), tax)
			if tt.wantErr {
				if !IsPrecondition(err) {
					t.Fatalf("Compute() error = %v, want *PreconditionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
		})
	}
}

func computedSale(t *testing.T, gross, discount, pct string) model.Sale {
	t.Helper()
	s := model.Sale{
		ID:            uuid.New(),
		SalespersonID: uuid.New(),
		ClientName:    "Acme",
		Status:        model.SaleStatusPending,
		SaleDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	v, err := Compute(mustDec(gross), mustDec(discount), mustDec(pct), taxAt1015())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	Apply(&s, mustDec(gross), mustDec(discount), mustDec(pct), v)
	return s
}

func TestRecalculate_PartialPatchFallsBackToStoredValues(t *testing.T) {
	sale := computedSale(t, "1000", "0", "10")

	updated, err := Recalculate(sale, FinancialPatch{Discount: decPtr("200")}, taxAt1015())
	if err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}
	if !updated.GrossValue.Equal(mustDec("1000")) || !updated.CommissionPct.Equal(mustDec("10")) {
		t.Fatalf("stored inputs not kept: gross %s pct %s", updated.GrossValue, updated.CommissionPct)
	}
	if !updated.NetValue.Equal(mustDec("800")) {
		t.Errorf("NetValue = %s, want 800", updated.NetValue)
	}
	if !updated.CommissionValue.Equal(mustDec("80")) {
		t.Errorf("CommissionValue = %s, want 80", updated.CommissionValue)
	}
	if !updated.TaxRetained.Equal(mustDec("8.12")) {
		t.Errorf("TaxRetained = %s, want 8.12", updated.TaxRetained)
	}
	if !updated.NetCommission.Equal(mustDec("71.88")) {
		t.Errorf("NetCommission = %s, want 71.88", updated.NetCommission)
	}
	if !sale.NetValue.Equal(mustDec("1000")) {
		t.Errorf("original sale was modified")
	}
}

func TestRecalculate_EmptyPatchIsNoop(t *testing.T) {
	sale := computedSale(t, "500", "50", "5")
	got, err := Recalculate(sale, FinancialPatch{}, taxAt1015())
	if err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}
	if !got.NetCommission.Equal(sale.NetCommission) {
		t.Errorf("NetCommission changed: %s -> %s", sale.NetCommission, got.NetCommission)
	}
}

func TestRecalculate_MergedDiscountAboveGross(t *testing.T) {
	sale := computedSale(t, "500", "50", "5")
	_, err := Recalculate(sale, FinancialPatch{GrossValue: decPtr("40")}, taxAt1015())
	if !IsPrecondition(err) {
		t.Fatalf("Recalculate() error = %v, want *PreconditionError", err)
	}
}

func TestSyncCommission_MirrorsSaleAndKeepsStatus(t *testing.T) {
	sale := computedSale(t, "1000", "0", "10")
	c := NewCommission(sale)
	if c.Status != model.CommissionStatusPending || c.SaleID != sale.ID || c.SalespersonID != sale.SalespersonID {
		t.Fatalf("NewCommission() = %+v", c)
	}

	c.Status = model.CommissionStatusPaid
	updated, err := Recalculate(sale, FinancialPatch{CommissionPct: decPtr("5")}, taxAt1015())
	if err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}
	SyncCommission(&c, updated)

	if !c.CommissionValue.Equal(updated.CommissionValue) || !c.TaxRetained.Equal(updated.TaxRetained) || !c.NetValue.Equal(updated.NetCommission) {
		t.Errorf("commission %+v does not mirror sale %+v", c, updated)
	}
	if c.Status != model.CommissionStatusPaid {
		t.Errorf("Status = %s, want paid", c.Status)
	}
}
