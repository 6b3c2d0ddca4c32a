package commission

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

func newPackage(t *testing.T, value string, split *model.CommissionSplit) model.MarketingPackage {
	t.Helper()
	p := model.MarketingPackage{
		ID:             uuid.New(),
		OrderNumber:    "123456",
		ClientName:     "Padaria Central",
		ReferenceMonth: "2024-03",
		Tier:           model.TierPrata,
		Value:          mustDec(value),
		SalespersonID:  uuid.New(),
		Status:         model.PackageStatusApproved,
	}
	if err := p.SetSplit(split); err != nil {
		t.Fatalf("SetSplit() error = %v", err)
	}
	return p
}

func TestResolveCommission_SplitEvenly(t *testing.T) {
	p := newPackage(t, "220", &model.CommissionSplit{Percentage: mustDec("10"), Beneficiaries: []string{"A", "B"}})

	res, err := ResolveCommission(p, mustDec("5"))
	if err != nil {
		t.Fatalf("ResolveCommission() error = %v", err)
	}
	if !res.Total.Equal(mustDec("22.00")) {
		t.Errorf("Total = %s, want 22.00", res.Total)
	}
	if !res.PerBeneficiary.Equal(mustDec("11.00")) {
		t.Errorf("PerBeneficiary = %s, want 11.00", res.PerBeneficiary)
	}
	if len(res.Beneficiaries) != 2 || res.Beneficiaries[0] != "A" || res.Beneficiaries[1] != "B" {
		t.Errorf("Beneficiaries = %v, want [A B]", res.Beneficiaries)
	}
	if !res.PerBeneficiary.Mul(decimal.NewFromInt(2)).Equal(res.Total) {
		t.Errorf("per beneficiary x count != total")
	}
}

func TestResolveCommission_DefaultRate(t *testing.T) {
	p := newPackage(t, "220", nil)

	res, err := ResolveCommission(p, mustDec("5"))
	if err != nil {
		t.Fatalf("ResolveCommission() error = %v", err)
	}
	if !res.Total.Equal(mustDec("11.00")) || !res.PerBeneficiary.Equal(mustDec("11.00")) {
		t.Errorf("got total %s per beneficiary %s, want 11.00 / 11.00", res.Total, res.PerBeneficiary)
	}
	if len(res.Beneficiaries) != 1 || res.Beneficiaries[0] != p.SalespersonID.String() {
		t.Errorf("Beneficiaries = %v, want [%s]", res.Beneficiaries, p.SalespersonID)
	}
}

func TestResolveCommission_RemainderGoesToFirstBeneficiaries(t *testing.T) {
	p := newPackage(t, "100", &model.CommissionSplit{Percentage: mustDec("10"), Beneficiaries: []string{"A", "B", "C"}})

	res, err := ResolveCommission(p, mustDec("5"))
	if err != nil {
		t.Fatalf("ResolveCommission() error = %v", err)
	}
	want := []string{"3.34", "3.33", "3.33"}
	sum := decimal.Zero
	for i, s := range res.Shares {
		if !s.Amount.Equal(mustDec(want[i])) {
			t.Errorf("share %d = %s, want %s", i, s.Amount, want[i])
		}
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(res.Total) {
		t.Errorf("shares sum to %s, total is %s", sum, res.Total)
	}
	if !res.PerBeneficiary.Equal(mustDec("3.33")) {
		t.Errorf("PerBeneficiary = %s, want 3.33", res.PerBeneficiary)
	}
}

func TestResolveCommission_DuplicatesKept(t *testing.T) {
	p := newPackage(t, "420", &model.CommissionSplit{Percentage: mustDec("10"), Beneficiaries: []string{"A", "A"}})

	res, err := ResolveCommission(p, mustDec("5"))
	if err != nil {
		t.Fatalf("ResolveCommission() error = %v", err)
	}
	if len(res.Shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(res.Shares))
	}
}

func TestResolveCommission_ZeroBeneficiariesRejected(t *testing.T) {
	p := newPackage(t, "220", &model.CommissionSplit{Percentage: mustDec("10")})

	_, err := ResolveCommission(p, mustDec("5"))
	if !IsValidation(err) {
		t.Fatalf("ResolveCommission() error = %v, want *ValidationError", err)
	}
	if !errors.Is(err, ErrEmptySplit) {
		t.Errorf("error does not wrap ErrEmptySplit: %v", err)
	}
}
