package commission

import (
	"testing"

	"commission-backend/internal/model"
)

func TestCheckSaleEdit(t *testing.T) {
	for _, status := range model.SaleStatuses {
		err := CheckSaleEdit(model.Sale{Status: status})
		if status == model.SaleStatusPending {
			if err != nil {
				t.Errorf("pending sale: error = %v", err)
			}
			continue
		}
		if !IsPolicy(err) {
			t.Errorf("%s sale: error = %v, want *PolicyViolation", status, err)
		}
		if IsValidation(err) {
			t.Errorf("%s sale: policy error reported as validation", status)
		}
	}
}

func TestCheckSaleTransition(t *testing.T) {
	tests := []struct {
		role       model.Role
		from, to   model.SaleStatus
		violations int
	}{
		{model.RoleManager, model.SaleStatusPending, model.SaleStatusApproved, 0},
		{model.RoleAdmin, model.SaleStatusApproved, model.SaleStatusPaid, 0},
		{model.RoleAdmin, model.SaleStatusPending, model.SaleStatusCancelled, 0},
		{model.RoleAdmin, model.SaleStatusApproved, model.SaleStatusCancelled, 0},
		{model.RoleAdmin, model.SaleStatusPending, model.SaleStatusPaid, 1},
		{model.RoleAdmin, model.SaleStatusPaid, model.SaleStatusPending, 1},
		{model.RoleAdmin, model.SaleStatusCancelled, model.SaleStatusApproved, 1},
		{model.RoleAdmin, model.SaleStatusApproved, model.SaleStatusApproved, 1},
		{model.RoleAdmin, model.SaleStatusPending, "archived", 1},
		{model.RoleSalesperson, model.SaleStatusPending, model.SaleStatusApproved, 1},
		{model.RoleFinance, model.SaleStatusPaid, model.SaleStatusPending, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			err := CheckSaleTransition(tt.role, tt.from, tt.to)
			if tt.violations == 0 {
				if err != nil {
					t.Fatalf("error = %v", err)
				}
				return
			}
			pv, ok := err.(*PolicyViolation)
			if !ok {
				t.Fatalf("error = %v, want *PolicyViolation", err)
			}
			if len(pv.Violations) != tt.violations {
				t.Errorf("got %d violations %v, want %d", len(pv.Violations), pv.Violations, tt.violations)
			}
		})
	}
}

func TestCheckSaleDelete(t *testing.T) {
	tests := []struct {
		role   model.Role
		status model.SaleStatus
		ok     bool
	}{
		{model.RoleAdmin, model.SaleStatusPending, true},
		{model.RoleAdmin, model.SaleStatusCancelled, true},
		{model.RoleAdmin, model.SaleStatusApproved, false},
		{model.RoleAdmin, model.SaleStatusPaid, false},
		{model.RoleManager, model.SaleStatusPending, false},
	}
	for _, tt := range tests {
		err := CheckSaleDelete(tt.role, model.Sale{Status: tt.status})
		if tt.ok != (err == nil) {
			t.Errorf("CheckSaleDelete(%s, %s) error = %v", tt.role, tt.status, err)
		}
	}
}

func TestCheckCommissionTransition(t *testing.T) {
	tests := []struct {
		from, to model.CommissionStatus
		ok       bool
	}{
		{model.CommissionStatusPending, model.CommissionStatusPaid, true},
		{model.CommissionStatusPending, model.CommissionStatusCancelled, true},
		{model.CommissionStatusPaid, model.CommissionStatusPaid, true},
		{model.CommissionStatusPaid, model.CommissionStatusPending, false},
		{model.CommissionStatusPaid, model.CommissionStatusCancelled, false},
		{model.CommissionStatusCancelled, model.CommissionStatusPaid, false},
		{model.CommissionStatusPending, "settled", false},
	}
	for _, tt := range tests {
		err := CheckCommissionTransition(tt.from, tt.to)
		if tt.ok != (err == nil) {
			t.Errorf("CheckCommissionTransition(%s, %s) error = %v", tt.from, tt.to, err)
		}
	}
}

func TestCheckPackageApproval(t *testing.T) {
	pending := model.MarketingPackage{Status: model.PackageStatusPending}
	if err := CheckPackageApproval(model.RoleManager, pending); err != nil {
		t.Errorf("manager approving pending package: %v", err)
	}
	if err := CheckPackageApproval(model.RoleSalesperson, pending); !IsPolicy(err) {
		t.Errorf("salesperson approving: error = %v, want *PolicyViolation", err)
	}
	approved := model.MarketingPackage{Status: model.PackageStatusApproved}
	if err := CheckPackageApproval(model.RoleAdmin, approved); !IsPolicy(err) {
		t.Errorf("approving approved package: error = %v, want *PolicyViolation", err)
	}
}
