package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_sales_created_total",
		Help: "Sales created, by creator role.",
	}, []string{"role"})

	SaleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_sale_transitions_total",
		Help: "Sale status changes, by target status.",
	}, []string{"status"})

	CommissionsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commission_commissions_paid_total",
		Help: "Commission records marked as paid.",
	})

	PolicyViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_policy_violations_total",
		Help: "Rejected edits and transitions, by operation.",
	}, []string{"operation"})

	PackagesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_marketing_packages_created_total",
		Help: "Marketing packages created, by tier.",
	}, []string{"tier"})
)
