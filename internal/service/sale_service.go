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

type CreateSaleRequest struct {
	SalespersonID string           `json:"salesperson_id"` // required for roles other than salesperson
	ClientName    string           `json:"client_name"`
	ClientEmail   string           `json:"client_email"`
	ClientPhone   string           `json:"client_phone"`
	GrossValue    *decimal.Decimal `json:"gross_value" swaggertype:"number"`
	Discount      *decimal.Decimal `json:"discount" swaggertype:"number"`
	CommissionPct *decimal.Decimal `json:"commission_pct" swaggertype:"number"` // defaults to the configured sale rate
	SaleDate      string           `json:"sale_date"`                           // YYYY-MM-DD
	Notes         string           `json:"notes"`
}

// UpdateSaleRequest carries a partial edit; absent fields keep their stored value.
type UpdateSaleRequest struct {
	ClientName    *string          `json:"client_name"`
	ClientEmail   *string          `json:"client_email"`
	ClientPhone   *string          `json:"client_phone"`
	GrossValue    *decimal.Decimal `json:"gross_value" swaggertype:"number"`
	Discount      *decimal.Decimal `json:"discount" swaggertype:"number"`
	CommissionPct *decimal.Decimal `json:"commission_pct" swaggertype:"number"`
	SaleDate      *string          `json:"sale_date"`
	Notes         *string          `json:"notes"`
}

type ChangeSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SaleQuery struct {
	SalespersonID string
	Status        string
	Search        string
	From          string
	To            string
	Page          int
	Limit         int
}

// SaleStatsResponse adds the monthly goal progress to the sale summary
type SaleStatsResponse struct {
	model.SaleStats
	MonthlyGoal  decimal.Decimal `json:"monthly_goal"`
	GoalProgress decimal.Decimal `json:"goal_progress"` // percent of the goal reached by total net value
}

// --- Interface ---

type SaleService interface {
	CreateSale(ctx context.Context, actor model.Actor, req CreateSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, actor model.Actor, id string) (*model.Sale, error)
	ListSales(ctx context.Context, actor model.Actor, q SaleQuery) ([]model.Sale, int64, error)
	UpdateSale(ctx context.Context, actor model.Actor, id string, req UpdateSaleRequest) (*model.Sale, error)
	ChangeSaleStatus(ctx context.Context, actor model.Actor, id string, status string) (*model.Sale, error)
	DeleteSale(ctx context.Context, actor model.Actor, id string) error
	SaleStats(ctx context.Context, actor model.Actor, q SaleQuery) (*SaleStatsResponse, error)
}

type saleService struct {
	store    *repository.Store
	business config.Business
	audit    AuditSink
	notifier Notifier
	now      func() time.Time
}

func NewSaleService(store *repository.Store, business config.Business, audit AuditSink, notifier Notifier) SaleService {
	return &saleService{
		store:    store,
		business: business,
		audit:    audit,
		notifier: orNoop(notifier),
		now:      time.Now,
	}
}

// --- Implementation ---

// resolveSalesperson picks the owner of a new record. Salespeople always own
// what they create; other roles must name an existing active user.
func resolveSalesperson(ctx context.Context, users repository.UserRepository, actor model.Actor, requested string) (uuid.UUID, error) {
	if actor.Role == model.RoleSalesperson {
		return actor.ID, nil
	}
	if strings.TrimSpace(requested) == "" {
		return uuid.Nil, invalid("salesperson_id is required")
	}
	id, err := parseID("salesperson_id", requested)
	if err != nil {
		return uuid.Nil, err
	}
	u, err := users.GetByID(ctx, id)
	if err != nil || !u.Active {
		return uuid.Nil, invalid("salesperson_id does not match an active user")
	}
	return id, nil
}

func (s *saleService) CreateSale(ctx context.Context, actor model.Actor, req CreateSaleRequest) (*model.Sale, error) {
	if !actor.Can(model.CapCreateSale) {
		return nil, ErrForbidden
	}
	if req.CommissionPct == nil {
		pct := s.business.SaleCommissionPct
		req.CommissionPct = &pct
	}

	in := commission.SaleInput{
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		GrossValue:    req.GrossValue,
		Discount:      req.Discount,
		CommissionPct: req.CommissionPct,
		SaleDate:      req.SaleDate,
	}
	if err := commission.ValidateSale(in, s.now()).Err(); err != nil {
		return nil, err
	}

	owner, err := resolveSalesperson(ctx, s.store.Users, actor, req.SalespersonID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	values, err := commission.Compute(*req.GrossValue, discount, *req.CommissionPct, s.business.Tax)
	if err != nil {
		return nil, err
	}
	saleDate, _ := commission.ParseDate(req.SaleDate)

	sale := model.Sale{
		ID:            uuid.New(),
		SalespersonID: owner,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		ClientPhone:   strings.TrimSpace(req.ClientPhone),
		Status:        model.SaleStatusPending,
		SaleDate:      commission.CalendarDay(saleDate),
		Notes:         req.Notes,
	}
	commission.Apply(&sale, *req.GrossValue, discount, *req.CommissionPct, values)

	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Sales.Create(txCtx, &sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		c := commission.NewCommission(sale)
		c.ID = uuid.New()
		if err := s.store.Commissions.Create(txCtx, &c); err != nil {
			return fmt.Errorf("failed to create commission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SalesCreated.WithLabelValues(string(actor.Role)).Inc()
	s.audit.Record(ctx, AuditEntry{
		Actor:       &actor,
		Action:      model.ActionCreate,
		EntityType:  model.EntitySale,
		EntityID:    sale.ID.String(),
		Description: fmt.Sprintf("Sale to %s, net value %s", sale.ClientName, sale.NetValue.StringFixed(2)),
	})
	if actor.Role == model.RoleSalesperson {
		s.notifier.Notify(model.Notification{
			Type:          model.NotificationSaleCreated,
			Message:       fmt.Sprintf("New sale to %s", sale.ClientName),
			SalespersonID: sale.SalespersonID.String(),
			Value:         sale.NetValue,
			Timestamp:     s.now(),
		})
	}
	return &sale, nil
}

func (s *saleService) load(ctx context.Context, actor model.Actor, rawID string) (*model.Sale, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	sale, err := s.store.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, sale.SalespersonID) {
		return nil, ErrForbidden
	}
	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, actor model.Actor, id string) (*model.Sale, error) {
	return s.load(ctx, actor, id)
}

func (s *saleService) filter(actor model.Actor, q SaleQuery) (repository.SaleFilter, error) {
	owner, err := ownerScope(actor, q.SalespersonID)
	if err != nil {
		return repository.SaleFilter{}, err
	}
	f := repository.SaleFilter{SalespersonID: owner, Search: q.Search, Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		st := model.SaleStatus(q.Status)
		if !st.Valid() {
			return f, invalid(fmt.Sprintf("unknown sale status %q", q.Status))
		}
		f.Status = st
	}
	if f.From, err = parseDay("from", q.From, false); err != nil {
		return f, err
	}
	if f.To, err = parseDay("to", q.To, true); err != nil {
		return f, err
	}
	return f, nil
}

func (s *saleService) ListSales(ctx context.Context, actor model.Actor, q SaleQuery) ([]model.Sale, int64, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Sales.List(ctx, f)
}

func (s *saleService) UpdateSale(ctx context.Context, actor model.Actor, id string, req UpdateSaleRequest) (*model.Sale, error) {
	sale, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sale.SalespersonID != actor.ID && !actor.Can(model.CapChangeSaleStatus) {
		return nil, ErrForbidden
	}
	if err := commission.CheckSaleEdit(*sale); err != nil {
		metrics.PolicyViolations.WithLabelValues("sale_update").Inc()
		return nil, err
	}

	patch := commission.FinancialPatch{
		GrossValue:    req.GrossValue,
		Discount:      req.Discount,
		CommissionPct: req.CommissionPct,
	}
	gross, discount, pct := patch.Merge(*sale)
	in := commission.SaleInput{
		ClientName:    pick(req.ClientName, sale.ClientName),
		ClientEmail:   pick(req.ClientEmail, sale.ClientEmail),
		ClientPhone:   pick(req.ClientPhone, sale.ClientPhone),
		GrossValue:    &gross,
		Discount:      &discount,
		CommissionPct: &pct,
		SaleDate:      pick(req.SaleDate, sale.SaleDate.Format("2006-01-02")),
	}
	if err := commission.ValidateSale(in, s.now()).Err(); err != nil {
		return nil, err
	}

	updated, err := commission.Recalculate(*sale, patch, s.business.Tax)
	if err != nil {
		return nil, err
	}
	updated.ClientName = strings.TrimSpace(in.ClientName)
	updated.ClientEmail = strings.TrimSpace(in.ClientEmail)
	updated.ClientPhone = strings.TrimSpace(in.ClientPhone)
	updated.Notes = pick(req.Notes, sale.Notes)
	if req.SaleDate != nil {
		d, _ := commission.ParseDate(*req.SaleDate)
		updated.SaleDate = commission.CalendarDay(d)
	}

	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Sales.Update(txCtx, &updated); err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		if patch.Empty() {
			return nil
		}
		c, err := s.store.Commissions.FindBySaleID(txCtx, updated.ID)
		if err != nil {
			return fmt.Errorf("failed to load commission of sale %s: %w", updated.ID, err)
		}
		commission.SyncCommission(c, updated)
		if err := s.store.Commissions.Update(txCtx, c); err != nil {
			return fmt.Errorf("failed to update commission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if diffs := commission.DiffSales(*sale, updated); len(diffs) > 0 {
		s.audit.Record(ctx, AuditEntry{
			Actor:       &actor,
			Action:      model.ActionUpdate,
			EntityType:  model.EntitySale,
			EntityID:    updated.ID.String(),
			Changes:     diffs,
			Description: fmt.Sprintf("%d field(s) changed", len(diffs)),
		})
	}
	return &updated, nil
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func (s *saleService) ChangeSaleStatus(ctx context.Context, actor model.Actor, id string, status string) (*model.Sale, error) {
	sale, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	to := model.SaleStatus(status)
	if err := commission.CheckSaleTransition(actor.Role, sale.Status, to); err != nil {
		metrics.PolicyViolations.WithLabelValues("sale_status").Inc()
		return nil, err
	}

	updated := *sale
	updated.Status = to
	if err := s.store.Sales.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	metrics.SaleTransitions.WithLabelValues(string(to)).Inc()
	s.audit.Record(ctx, AuditEntry{
		Actor:       &actor,
		Action:      model.ActionStatusChange,
		EntityType:  model.EntitySale,
		EntityID:    updated.ID.String(),
		Changes:     commission.DiffSales(*sale, updated),
		Description: fmt.Sprintf("Status %s -> %s", sale.Status, to),
	})
	return &updated, nil
}

func (s *saleService) DeleteSale(ctx context.Context, actor model.Actor, id string) error {
	sale, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := commission.CheckSaleDelete(actor.Role, *sale); err != nil {
		metrics.PolicyViolations.WithLabelValues("sale_delete").Inc()
		return err
	}

	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Commissions.DeleteBySaleID(txCtx, sale.ID); err != nil {
			return fmt.Errorf("failed to delete commission: %w", err)
		}
		if err := s.store.Sales.Delete(txCtx, sale.ID); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:       &actor,
		Action:      model.ActionDelete,
		EntityType:  model.EntitySale,
		EntityID:    sale.ID.String(),
		Description: fmt.Sprintf("Sale to %s deleted (%s)", sale.ClientName, sale.Status),
	})
	return nil
}

func (s *saleService) SaleStats(ctx context.Context, actor model.Actor, q SaleQuery) (*SaleStatsResponse, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, err
	}
	f.Page, f.Limit = 0, 0
	sales, err := s.store.Sales.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &SaleStatsResponse{
		SaleStats:    commission.SummarizeSales(sales),
		MonthlyGoal:  s.business.MonthlySalesGoal,
		GoalProgress: decimal.Zero,
	}
	if s.business.MonthlySalesGoal.IsPositive() {
		res.GoalProgress = res.TotalNet.Mul(decimal.NewFromInt(100)).DivRound(s.business.MonthlySalesGoal, 2)
	}
	return res, nil
}
