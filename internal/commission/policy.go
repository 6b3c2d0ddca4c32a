package commission

import (
	"fmt"

	"commission-backend/internal/model"
)

var saleTransitions = map[model.SaleStatus][]model.SaleStatus{
	model.SaleStatusPending:  {model.SaleStatusApproved, model.SaleStatusCancelled},
	model.SaleStatusApproved: {model.SaleStatusPaid, model.SaleStatusCancelled},
}

var commissionTransitions = map[model.CommissionStatus][]model.CommissionStatus{
	model.CommissionStatusPending: {model.CommissionStatusPaid, model.CommissionStatusCancelled},
}

// CanTransitionSale reports whether the sale lifecycle has an edge from -> to.
func CanTransitionSale(from, to model.SaleStatus) bool {
	for _, next := range saleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionCommission reports whether the payout lifecycle has an edge from -> to.
func CanTransitionCommission(from, to model.CommissionStatus) bool {
	for _, next := range commissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckSaleEdit gates every field edit of a sale on its current status.
// Only pending sales may be edited.
func CheckSaleEdit(sale model.Sale) error {
	if sale.Status != model.SaleStatusPending {
		return policyError([]string{fmt.Sprintf("sale is %s; only pending sales can be edited", sale.Status)})
	}
	return nil
}

// CheckSaleTransition validates a status change requested by role. Both the
// capability and the lifecycle graph are checked and reported together.
func CheckSaleTransition(role model.Role, from, to model.SaleStatus) error {
	var v []string
	if !role.Can(model.CapChangeSaleStatus) {
		v = append(v, fmt.Sprintf("role %s cannot change sale status", role))
	}
	switch {
	case !to.Valid():
		v = append(v, fmt.Sprintf("unknown sale status %q", to))
	case from == to:
		v = append(v, fmt.Sprintf("sale is already %s", from))
	case !CanTransitionSale(from, to):
		v = append(v, fmt.Sprintf("sale cannot move from %s to %s", from, to))
	}
	return policyError(v)
}

// CheckSaleDelete allows deletion of pending or cancelled sales by roles
// holding the delete capability.
func CheckSaleDelete(role model.Role, sale model.Sale) error {
	var v []string
	if !role.Can(model.CapDeleteSale) {
		v = append(v, fmt.Sprintf("role %s cannot delete sales", role))
	}
	if sale.Status != model.SaleStatusPending && sale.Status != model.SaleStatusCancelled {
		v = append(v, fmt.Sprintf("sale is %s; only pending or cancelled sales can be deleted", sale.Status))
	}
	return policyError(v)
}

// CheckCommissionTransition validates a payout status change. Keeping the
// current status is always allowed so notes and payment dates can be edited.
func CheckCommissionTransition(from, to model.CommissionStatus) error {
	switch {
	case !to.Valid():
		return policyError([]string{fmt.Sprintf("unknown commission status %q", to)})
	case from == to:
		return nil
	case !CanTransitionCommission(from, to):
		return policyError([]string{fmt.Sprintf("commission cannot move from %s to %s", from, to)})
	}
	return nil
}

// CheckPackageApproval allows pending packages to be approved by roles
// holding the approve capability.
func CheckPackageApproval(role model.Role, pkg model.MarketingPackage) error {
	var v []string
	if !role.Can(model.CapApproveMarketing) {
		v = append(v, fmt.Sprintf("role %s cannot approve marketing packages", role))
	}
	if pkg.Status != model.PackageStatusPending {
		v = append(v, fmt.Sprintf("package is already %s", pkg.Status))
	}
	return policyError(v)
}
