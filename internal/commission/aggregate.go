package commission

import (
	"sort"

	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

// SummarizeSales folds sales into totals, per-status counts and the average
// net value. Every status appears in CountByStatus, even with zero sales.
func SummarizeSales(sales []model.Sale) model.SaleStats {
	stats := model.SaleStats{
		TotalGross:         decimal.Zero,
		TotalNet:           decimal.Zero,
		TotalCommission:    decimal.Zero,
		TotalTaxRetained:   decimal.Zero,
		TotalNetCommission: decimal.Zero,
		CountByStatus:      make(map[model.SaleStatus]int, len(model.SaleStatuses)),
		AverageNet:         decimal.Zero,
	}
	for _, s := range model.SaleStatuses {
		stats.CountByStatus[s] = 0
	}

	for _, s := range sales {
		stats.TotalSales++
		stats.TotalGross = stats.TotalGross.Add(s.GrossValue)
		stats.TotalNet = stats.TotalNet.Add(s.NetValue)
		stats.TotalCommission = stats.TotalCommission.Add(s.CommissionValue)
		stats.TotalTaxRetained = stats.TotalTaxRetained.Add(s.TaxRetained)
		stats.TotalNetCommission = stats.TotalNetCommission.Add(s.NetCommission)
		stats.CountByStatus[s.Status]++
	}
	if stats.TotalSales > 0 {
		stats.AverageNet = stats.TotalNet.DivRound(decimal.NewFromInt(int64(stats.TotalSales)), 2)
	}
	return stats
}

// SummarizeCommissions folds commission records into totals, per-status
// counts and net values, and a per-salesperson grouping ordered by net value.
func SummarizeCommissions(commissions []model.Commission) model.CommissionStats {
	stats := model.CommissionStats{
		TotalValue:    decimal.Zero,
		TotalTax:      decimal.Zero,
		TotalNet:      decimal.Zero,
		CountByStatus: make(map[model.CommissionStatus]int, len(model.CommissionStatuses)),
		NetByStatus:   make(map[model.CommissionStatus]decimal.Decimal, len(model.CommissionStatuses)),
		AverageNet:    decimal.Zero,
		BySalesperson: []model.SalespersonCommissions{},
	}
	for _, s := range model.CommissionStatuses {
		stats.CountByStatus[s] = 0
		stats.NetByStatus[s] = decimal.Zero
	}

	groups := make(map[string]*model.SalespersonCommissions)
	for _, c := range commissions {
		stats.TotalCommissions++
		stats.TotalValue = stats.TotalValue.Add(c.CommissionValue)
		stats.TotalTax = stats.TotalTax.Add(c.TaxRetained)
		stats.TotalNet = stats.TotalNet.Add(c.NetValue)
		stats.CountByStatus[c.Status]++
		stats.NetByStatus[c.Status] = stats.NetByStatus[c.Status].Add(c.NetValue)

		key := c.SalespersonID.String()
		g, ok := groups[key]
		if !ok {
			g = &model.SalespersonCommissions{SalespersonID: key, NetValue: decimal.Zero}
			groups[key] = g
		}
		g.Count++
		g.NetValue = g.NetValue.Add(c.NetValue)
	}
	if stats.TotalCommissions > 0 {
		stats.AverageNet = stats.TotalNet.DivRound(decimal.NewFromInt(int64(stats.TotalCommissions)), 2)
	}

	for _, g := range groups {
		stats.BySalesperson = append(stats.BySalesperson, *g)
	}
	sort.Slice(stats.BySalesperson, func(i, j int) bool {
		a, b := stats.BySalesperson[i], stats.BySalesperson[j]
		if !a.NetValue.Equal(b.NetValue) {
			return a.NetValue.GreaterThan(b.NetValue)
		}
		return a.SalespersonID < b.SalespersonID
	})
	return stats
}

// BuildSalespersonReport merges commissions of approved sales and approved
// marketing packages per salesperson. A package with a split is attributed to
// its beneficiaries only. Entries are ordered by total commission, highest
// first.
func BuildSalespersonReport(sales []model.Sale, packages []model.MarketingPackage, defaultRatePct decimal.Decimal) ([]model.SalespersonReport, error) {
	reports := make(map[string]*model.SalespersonReport)
	entry := func(id string) *model.SalespersonReport {
		r, ok := reports[id]
		if !ok {
			r = &model.SalespersonReport{
				SalespersonID:       id,
				SalesCommission:     decimal.Zero,
				MarketingCommission: decimal.Zero,
				TotalCommission:     decimal.Zero,
				TotalValue:          decimal.Zero,
				Lines:               []model.ReportLine{},
			}
			reports[id] = r
		}
		return r
	}

	for _, s := range sales {
		if s.Status != model.SaleStatusApproved {
			continue
		}
		r := entry(s.SalespersonID.String())
		r.SalesCommission = r.SalesCommission.Add(s.CommissionValue)
		r.TotalValue = r.TotalValue.Add(s.NetValue)
		r.Lines = append(r.Lines, model.ReportLine{
			Kind:       model.ReportLineSale,
			SourceID:   s.ID.String(),
			Reference:  s.SaleDate.Format("2006-01-02"),
			ClientName: s.ClientName,
			Value:      s.NetValue,
			Commission: s.CommissionValue,
		})
	}

	for _, p := range packages {
		if p.Status != model.PackageStatusApproved {
			continue
		}
		res, err := ResolveCommission(p, defaultRatePct)
		if err != nil {
			return nil, err
		}
		for _, share := range res.Shares {
			r := entry(share.Beneficiary)
			r.MarketingCommission = r.MarketingCommission.Add(share.Amount)
			r.TotalValue = r.TotalValue.Add(p.Value)
			r.Lines = append(r.Lines, model.ReportLine{
				Kind:       model.ReportLineMarketing,
				SourceID:   p.ID.String(),
				Reference:  p.OrderNumber + " " + p.ReferenceMonth,
				ClientName: p.ClientName,
				Value:      p.Value,
				Commission: share.Amount,
			})
		}
	}

	out := make([]model.SalespersonReport, 0, len(reports))
	for _, r := range reports {
		r.TotalCommission = r.SalesCommission.Add(r.MarketingCommission)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalCommission.Equal(out[j].TotalCommission) {
			return out[i].TotalCommission.GreaterThan(out[j].TotalCommission)
		}
		return out[i].SalespersonID < out[j].SalespersonID
	})
	return out, nil
}

// TierDistribution counts packages and sums their value per tier, in price
// table order. Tiers without packages are included with zero values.
func TierDistribution(packages []model.MarketingPackage) []model.TierDistribution {
	idx := make(map[model.PackageTier]int, len(model.PackageTiers))
	out := make([]model.TierDistribution, len(model.PackageTiers))
	for i, t := range model.PackageTiers {
		idx[t] = i
		out[i] = model.TierDistribution{Tier: t, Value: decimal.Zero}
	}
	for _, p := range packages {
		i, ok := idx[p.Tier]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Value = out[i].Value.Add(p.Value)
	}
	return out
}
