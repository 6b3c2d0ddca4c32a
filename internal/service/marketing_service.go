package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-backend/internal/commission"
	"commission-backend/internal/config"
	"commission-backend/internal/metrics"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

// --- DTOs ---

type CreatePackageRequest struct {
	SalespersonID  string                 `json:"salesperson_id"`
	OrderNumber    string                 `json:"order_number" binding:"required"`
	ClientName     string                 `json:"client_name" binding:"required"`
	ReferenceMonth string                 `json:"reference_month" binding:"required"` // YYYY-MM
	Tier           string                 `json:"tier" binding:"required"`
	Split          *model.CommissionSplit `json:"split"`
}

type PackageQuery struct {
	SalespersonID  string
	Status         string
	Tier           string
	ReferenceMonth string
	Rate           string // first_month (default) or continuity
	Page           int
	Limit          int
}

// PackageResponse is a package with its commission resolved at the requested rate.
type PackageResponse struct {
	model.MarketingPackage
	Split      *model.CommissionSplit `json:"split,omitempty"`
	Rate       string                 `json:"rate"`
	Commission commission.Resolution  `json:"commission"`
}

// --- Interface ---

type MarketingService interface {
	CreatePackage(ctx context.Context, actor model.Actor, req CreatePackageRequest) (*PackageResponse, error)
	ApprovePackage(ctx context.Context, actor model.Actor, id string) (*PackageResponse, error)
	GetPackage(ctx context.Context, actor model.Actor, id string, rate string) (*PackageResponse, error)
	ListPackages(ctx context.Context, actor model.Actor, q PackageQuery) ([]PackageResponse, int64, error)
	PriceTable() map[model.PackageTier]decimal.Decimal
}

type marketingService struct {
	store    *repository.Store
	business config.Business
	audit    AuditSink
	notifier Notifier
	now      func() time.Time
}

func NewMarketingService(store *repository.Store, business config.Business, audit AuditSink, notifier Notifier) MarketingService {
	return &marketingService{
		store:    store,
		business: business,
		audit:    audit,
		notifier: orNoop(notifier),
		now:      time.Now,
	}
}

// --- Implementation ---

func (s *marketingService) resolve(pkg model.MarketingPackage, rate string) (*PackageResponse, error) {
	if rate == "" {
		rate = config.RateFirstMonth
	}
	pct, err := s.business.MarketingRate(rate)
	if err != nil {
		return nil, invalid(err.Error())
	}
	split, err := pkg.Split()
	if err != nil {
		return nil, err
	}
	res, err := commission.ResolveCommission(pkg, pct)
	if err != nil {
		return nil, err
	}
	return &PackageResponse{MarketingPackage: pkg, Split: split, Rate: rate, Commission: res}, nil
}

func (s *marketingService) CreatePackage(ctx context.Context, actor model.Actor, req CreatePackageRequest) (*PackageResponse, error) {
	if !actor.Can(model.CapCreateSale) {
		return nil, ErrForbidden
	}
	in := commission.PackageInput{
		OrderNumber:    strings.TrimSpace(req.OrderNumber),
		ClientName:     req.ClientName,
		ReferenceMonth: strings.TrimSpace(req.ReferenceMonth),
		Tier:           strings.ToLower(strings.TrimSpace(req.Tier)),
		Split:          req.Split,
	}
	if err := commission.ValidatePackage(in, s.business.PackagePrices).Err(); err != nil {
		return nil, err
	}
	owner, err := resolveSalesperson(ctx, s.store.Users, actor, req.SalespersonID)
	if err != nil {
		return nil, err
	}

	tier := model.PackageTier(in.Tier)
	pkg := model.MarketingPackage{
		ID:             uuid.New(),
		OrderNumber:    in.OrderNumber,
		ClientName:     strings.TrimSpace(in.ClientName),
		ReferenceMonth: in.ReferenceMonth,
		Tier:           tier,
		Value:          s.business.PackagePrices[tier],
		SalespersonID:  owner,
		Status:         model.PackageStatusPending,
	}
	if req.Split != nil {
		split := *req.Split
		split.Beneficiaries, err = s.resolveBeneficiaries(ctx, req.Split.Beneficiaries)
		if err != nil {
			return nil, err
		}
		if err := pkg.SetSplit(&split); err != nil {
			return nil, fmt.Errorf("failed to encode split: %w", err)
		}
	}

	if err := s.store.Marketing.Create(ctx, &pkg); err != nil {
		return nil, fmt.Errorf("failed to create marketing package: %w", err)
	}

	metrics.PackagesCreated.WithLabelValues(string(tier)).Inc()
	s.audit.Record(ctx, AuditEntry{
		Actor:       &actor,
		Action:      model.ActionCreate,
		EntityType:  model.EntityMarketing,
		EntityID:    pkg.ID.String(),
		Description: fmt.Sprintf("Package %s (%s) for %s, %s", pkg.OrderNumber, pkg.Tier, pkg.ClientName, pkg.ReferenceMonth),
	})
	if actor.Role == model.RoleSalesperson {
		s.notifier.Notify(model.Notification{
			Type:          model.NotificationPackageCreated,
			Message:       fmt.Sprintf("New %s package for %s", pkg.Tier, pkg.ClientName),
			SalespersonID: pkg.SalespersonID.String(),
			Value:         pkg.Value,
			Timestamp:     s.now(),
		})
	}
	return s.resolve(pkg, "")
}

// resolveBeneficiaries maps split beneficiaries onto active salespeople and
// returns their canonical ids, in order.
func (s *marketingService) resolveBeneficiaries(ctx context.Context, raw []string) ([]string, error) {
	ids := make([]string, len(raw))
	var errs []string
	for i, b := range raw {
		b = strings.TrimSpace(b)
		id, err := uuid.Parse(b)
		if err != nil {
			errs = append(errs, fmt.Sprintf("split beneficiary %q is not a salesperson id", b))
			continue
		}
		u, err := s.store.Users.GetByID(ctx, id)
		if err != nil || !u.Active || u.Role != model.RoleSalesperson {
			errs = append(errs, fmt.Sprintf("split beneficiary %q does not match an active salesperson", b))
			continue
		}
		ids[i] = id.String()
	}
	if len(errs) > 0 {
		return nil, invalid(errs...)
	}
	return ids, nil
}

func (s *marketingService) load(ctx context.Context, actor model.Actor, rawID string) (*model.MarketingPackage, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.store.Marketing.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, pkg.SalespersonID) {
		return nil, ErrForbidden
	}
	return pkg, nil
}

func (s *marketingService) ApprovePackage(ctx context.Context, actor model.Actor, id string) (*PackageResponse, error) {
	pkg, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := commission.CheckPackageApproval(actor.Role, *pkg); err != nil {
		metrics.PolicyViolations.WithLabelValues("package_approve").Inc()
		return nil, err
	}

	updated := *pkg
	updated.Status = model.PackageStatusApproved
	if err := s.store.Marketing.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to approve marketing package: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      &actor,
		Action:     model.ActionApprove,
		EntityType: model.EntityMarketing,
		EntityID:   updated.ID.String(),
		Changes: []model.FieldDiff{
			{Field: "status", Old: string(pkg.Status), New: string(updated.Status)},
		},
	})
	return s.resolve(updated, "")
}

func (s *marketingService) GetPackage(ctx context.Context, actor model.Actor, id string, rate string) (*PackageResponse, error) {
	pkg, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(*pkg, rate)
}

func (s *marketingService) ListPackages(ctx context.Context, actor model.Actor, q PackageQuery) ([]PackageResponse, int64, error) {
	owner, err := ownerScope(actor, q.SalespersonID)
	if err != nil {
		return nil, 0, err
	}
	f := repository.MarketingFilter{
		SalespersonID:  owner,
		Status:         model.PackageStatus(q.Status),
		Tier:           model.PackageTier(strings.ToLower(q.Tier)),
		ReferenceMonth: q.ReferenceMonth,
		Page:           q.Page,
		Limit:          q.Limit,
	}
	if f.Status != "" && f.Status != model.PackageStatusPending && f.Status != model.PackageStatusApproved {
		return nil, 0, invalid(fmt.Sprintf("unknown package status %q", q.Status))
	}

	pkgs, total, err := s.store.Marketing.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		r, err := s.resolve(p, q.Rate)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, nil
}

func (s *marketingService) PriceTable() map[model.PackageTier]decimal.Decimal {
	out := make(map[model.PackageTier]decimal.Decimal, len(s.business.PackagePrices))
	for k, v := range s.business.PackagePrices {
		out[k] = v
	}
	return out
}
