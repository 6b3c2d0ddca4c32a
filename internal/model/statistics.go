package model

import (
	"github.com/shopspring/decimal"
)

// SaleStats aggregates a filtered collection of sales
type SaleStats struct {
	TotalSales         int                `json:"total_sales"`
	TotalGross         decimal.Decimal    `json:"total_gross"`
	TotalNet           decimal.Decimal    `json:"total_net"`
	TotalCommission    decimal.Decimal    `json:"total_commission"`
	TotalTaxRetained   decimal.Decimal    `json:"total_tax_retained"`
	TotalNetCommission decimal.Decimal    `json:"total_net_commission"`
	CountByStatus      map[SaleStatus]int `json:"count_by_status"`
	AverageNet         decimal.Decimal    `json:"average_net"` // average ticket
}

// CommissionStats aggregates a filtered collection of commission records
type CommissionStats struct {
	TotalCommissions int                                  `json:"total_commissions"`
	TotalValue       decimal.Decimal                      `json:"total_value"`
	TotalTax         decimal.Decimal                      `json:"total_tax"`
	TotalNet         decimal.Decimal                      `json:"total_net"`
	CountByStatus    map[CommissionStatus]int             `json:"count_by_status"`
	NetByStatus      map[CommissionStatus]decimal.Decimal `json:"net_by_status"`
	AverageNet       decimal.Decimal                      `json:"average_net"`
	BySalesperson    []SalespersonCommissions             `json:"by_salesperson"`
}

// SalespersonCommissions groups commission records of one salesperson
type SalespersonCommissions struct {
	SalespersonID string          `json:"salesperson_id"`
	Count         int             `json:"count"`
	NetValue      decimal.Decimal `json:"net_value"`
}

const (
	ReportLineSale      = "sale"
	ReportLineMarketing = "marketing"
)

// ReportLine is one contribution to a salesperson's combined commission
type ReportLine struct {
	Kind       string          `json:"kind"` // sale, marketing
	SourceID   string          `json:"source_id"`
	Reference  string          `json:"reference"`
	ClientName string          `json:"client_name"`
	Value      decimal.Decimal `json:"value"`
	Commission decimal.Decimal `json:"commission"`
}

// SalespersonReport merges sale and marketing commissions of one salesperson
type SalespersonReport struct {
	SalespersonID       string          `json:"salesperson_id"`
	SalespersonName     string          `json:"salesperson_name,omitempty"`
	SalesCommission     decimal.Decimal `json:"sales_commission"`
	MarketingCommission decimal.Decimal `json:"marketing_commission"`
	TotalCommission     decimal.Decimal `json:"total_commission"`
	TotalValue          decimal.Decimal `json:"total_value"`
	Lines               []ReportLine    `json:"lines"`
}

// TierDistribution counts marketing packages per tier
type TierDistribution struct {
	Tier  PackageTier     `json:"tier"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}
