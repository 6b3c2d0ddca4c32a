package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
)

func packageRequest(order, tier string) CreatePackageRequest {
	return CreatePackageRequest{
		OrderNumber:    order,
		ClientName:     "Clínica Sorriso",
		ReferenceMonth: "2024-03",
		Tier:           tier,
	}
}

func TestCreatePackage_PricesFromTableAndResolves(t *testing.T) {
	f := newFixture(t)
	svc := f.marketing()
	ctx := context.Background()

	res, err := svc.CreatePackage(ctx, f.ana, packageRequest("123456", "ouro"))
	if err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}
	if !res.Value.Equal(dec("420")) || res.Status != model.PackageStatusPending {
		t.Errorf("package = %+v", res.MarketingPackage)
	}
	if !res.Commission.Total.Equal(dec("42")) || res.Commission.Beneficiaries[0] != f.ana.ID.String() {
		t.Errorf("commission = %+v", res.Commission)
	}
	if len(f.notifier.got) != 1 || f.notifier.got[0].Type != model.NotificationPackageCreated {
		t.Errorf("notifications = %+v", f.notifier.got)
	}

	got, err := svc.GetPackage(ctx, f.ana, res.ID.String(), "continuity")
	if err != nil {
		t.Fatalf("GetPackage() error = %v", err)
	}
	if !got.Commission.Total.Equal(dec("21")) {
		t.Errorf("continuity total = %s, want 21", got.Commission.Total)
	}
	if _, err := svc.GetPackage(ctx, f.ana, res.ID.String(), "yearly"); !commission.IsValidation(err) {
		t.Errorf("unknown rate: err = %v", err)
	}
}

func TestCreatePackage_SplitAndValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.marketing()
	ctx := context.Background()

	req := packageRequest("654321", "bronze")
	req.Split = &model.CommissionSplit{
		Percentage:    dec("10"),
		Beneficiaries: []string{f.ana.ID.String(), f.bruno.ID.String(), f.ana.ID.String()},
	}
	res, err := svc.CreatePackage(ctx, f.ana, req)
	if err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}
	if res.Split == nil || len(res.Commission.Shares) != 3 {
		t.Fatalf("split resolution = %+v", res.Commission)
	}
	if !res.Commission.Shares[0].Amount.Equal(dec("4")) {
		t.Errorf("first share = %s, want 4.00", res.Commission.Shares[0].Amount)
	}

	bad := packageRequest("12a", "platina")
	bad.Split = &model.CommissionSplit{Percentage: dec("10")}
	_, err = svc.CreatePackage(ctx, f.ana, bad)
	var ve *commission.ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 3 {
		t.Errorf("err = %v, want order, tier and empty split errors", err)
	}
}

func TestCreatePackage_ResolvesBeneficiaries(t *testing.T) {
	f := newFixture(t)
	svc := f.marketing()
	ctx := context.Background()

	req := packageRequest("333333", "bronze")
	req.Split = &model.CommissionSplit{
		Percentage:    dec("10"),
		Beneficiaries: []string{" " + strings.ToUpper(f.ana.ID.String()), f.bruno.ID.String()},
	}
	res, err := svc.CreatePackage(ctx, f.ana, req)
	if err != nil {
		t.Fatalf("CreatePackage() error = %v", err)
	}
	want := []string{f.ana.ID.String(), f.bruno.ID.String()}
	for i, b := range res.Split.Beneficiaries {
		if b != want[i] {
			t.Errorf("beneficiary %d = %q, want %q", i, b, want[i])
		}
	}

	tests := []struct {
		name          string
		beneficiaries []string
		wantErrors    int
	}{
		{"unknown name", []string{"carla"}, 1},
		{"not a salesperson", []string{f.manager.ID.String()}, 1},
		{"missing user", []string{uuid.NewString(), "ana", f.bruno.ID.String()}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := packageRequest("444444", "prata")
			req.Split = &model.CommissionSplit{Percentage: dec("10"), Beneficiaries: tt.beneficiaries}
			_, err := svc.CreatePackage(ctx, f.ana, req)
			var ve *commission.ValidationError
			if !errors.As(err, &ve) || len(ve.Errors) != tt.wantErrors {
				t.Errorf("err = %v, want %d validation errors", err, tt.wantErrors)
			}
		})
	}
	if _, total, _ := svc.ListPackages(ctx, f.manager, PackageQuery{}); total != 1 {
		t.Errorf("stored packages = %d, want 1", total)
	}
}

func TestApprovePackage(t *testing.T) {
	f := newFixture(t)
	svc := f.marketing()
	ctx := context.Background()
	res, _ := svc.CreatePackage(ctx, f.ana, packageRequest("111111", "prata"))

	if _, err := svc.ApprovePackage(ctx, f.ana, res.ID.String()); !commission.IsPolicy(err) {
		t.Fatalf("salesperson approve: err = %v", err)
	}
	approved, err := svc.ApprovePackage(ctx, f.manager, res.ID.String())
	if err != nil {
		t.Fatalf("ApprovePackage() error = %v", err)
	}
	if approved.Status != model.PackageStatusApproved {
		t.Errorf("status = %s", approved.Status)
	}
	if _, err := svc.ApprovePackage(ctx, f.manager, res.ID.String()); !commission.IsPolicy(err) {
		t.Errorf("second approve: err = %v", err)
	}

	list, total, err := svc.ListPackages(ctx, f.bruno, PackageQuery{})
	if err != nil || total != 0 || len(list) != 0 {
		t.Errorf("bruno sees %d packages, err %v", total, err)
	}
}
