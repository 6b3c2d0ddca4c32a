package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"commission-backend/internal/commission"
	"commission-backend/internal/config"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

type ReportQuery struct {
	From           string // sale date range
	To             string
	ReferenceMonth string // YYYY-MM, packages
	Rate           string
}

type ReportService interface {
	SalespersonReport(ctx context.Context, actor model.Actor, q ReportQuery) ([]model.SalespersonReport, error)
	TierDistribution(ctx context.Context, actor model.Actor, referenceMonth string) ([]model.TierDistribution, error)
}

type reportService struct {
	store    *repository.Store
	business config.Business
}

func NewReportService(store *repository.Store, business config.Business) ReportService {
	return &reportService{store: store, business: business}
}

// SalespersonReport combines approved sale and marketing commissions per
// salesperson. Salespeople receive only their own entry, which includes split
// shares of packages assigned to others.
func (s *reportService) SalespersonReport(ctx context.Context, actor model.Actor, q ReportQuery) ([]model.SalespersonReport, error) {
	rate := q.Rate
	if rate == "" {
		rate = config.RateFirstMonth
	}
	pct, err := s.business.MarketingRate(rate)
	if err != nil {
		return nil, invalid(err.Error())
	}

	sf := repository.SaleFilter{Status: model.SaleStatusApproved}
	if sf.From, err = parseDay("from", q.From, false); err != nil {
		return nil, err
	}
	if sf.To, err = parseDay("to", q.To, true); err != nil {
		return nil, err
	}
	sales, err := s.store.Sales.FindAll(ctx, sf)
	if err != nil {
		return nil, err
	}
	packages, err := s.store.Marketing.FindAll(ctx, repository.MarketingFilter{
		Status:         model.PackageStatusApproved,
		ReferenceMonth: strings.TrimSpace(q.ReferenceMonth),
	})
	if err != nil {
		return nil, err
	}

	reports, err := commission.BuildSalespersonReport(sales, packages, pct)
	if err != nil {
		return nil, err
	}

	if !actor.Can(model.CapViewAllSales) {
		own := actor.ID.String()
		mine := []model.SalespersonReport{}
		for _, r := range reports {
			if r.SalespersonID == own {
				mine = append(mine, r)
			}
		}
		reports = mine
	}

	users, err := s.store.Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.String()] = u.Name
	}
	for i := range reports {
		reports[i].SalespersonName = names[reports[i].SalespersonID]
	}
	return reports, nil
}

func (s *reportService) TierDistribution(ctx context.Context, actor model.Actor, referenceMonth string) ([]model.TierDistribution, error) {
	var owner *uuid.UUID
	if !actor.Can(model.CapViewAllSales) {
		id := actor.ID
		owner = &id
	}
	packages, err := s.store.Marketing.FindAll(ctx, repository.MarketingFilter{
		SalespersonID:  owner,
		ReferenceMonth: strings.TrimSpace(referenceMonth),
	})
	if err != nil {
		return nil, err
	}
	return commission.TierDistribution(packages), nil
}
