package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"commission-backend/internal/commission"
	"commission-backend/internal/metrics"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

// --- DTOs ---

type UpdateCommissionRequest struct {
	Status      string  `json:"status" binding:"required"`
	PaymentDate *string `json:"payment_date"` // YYYY-MM-DD; defaults to today when paying
	Notes       *string `json:"notes"`
}

type BatchCommissionRequest struct {
	IDs         []string `json:"ids" binding:"required"`
	Status      string   `json:"status" binding:"required"`
	PaymentDate *string  `json:"payment_date"`
	Notes       *string  `json:"notes"`
}

type CommissionQuery struct {
	SalespersonID string
	Status        string
	From          string
	To            string
	Page          int
	Limit         int
}

// --- Interface ---

type CommissionService interface {
	GetCommission(ctx context.Context, actor model.Actor, id string) (*model.Commission, error)
	ListCommissions(ctx context.Context, actor model.Actor, q CommissionQuery) ([]model.Commission, int64, error)
	ListBySalesperson(ctx context.Context, actor model.Actor, salespersonID string, q CommissionQuery) ([]model.Commission, int64, error)
	UpdateCommission(ctx context.Context, actor model.Actor, id string, req UpdateCommissionRequest) (*model.Commission, error)
	BatchUpdate(ctx context.Context, actor model.Actor, req BatchCommissionRequest) ([]model.Commission, error)
	CommissionStats(ctx context.Context, actor model.Actor, q CommissionQuery) (*model.CommissionStats, error)
}

type commissionService struct {
	store *repository.Store
	audit AuditSink
	now   func() time.Time
}

func NewCommissionService(store *repository.Store, audit AuditSink) CommissionService {
	return &commissionService{store: store, audit: audit, now: time.Now}
}

// --- Implementation ---

func (s *commissionService) GetCommission(ctx context.Context, actor model.Actor, id string) (*model.Commission, error) {
	cid, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Commissions.FindByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if !canView(actor, c.SalespersonID) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *commissionService) filter(actor model.Actor, q CommissionQuery) (repository.CommissionFilter, error) {
	owner, err := ownerScope(actor, q.SalespersonID)
	if err != nil {
		return repository.CommissionFilter{}, err
	}
	f := repository.CommissionFilter{SalespersonID: owner, Page: q.Page, Limit: q.Limit}
	if q.Status != "" {
		st := model.CommissionStatus(q.Status)
		if !st.Valid() {
			return f, invalid(fmt.Sprintf("unknown commission status %q", q.Status))
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

func (s *commissionService) ListCommissions(ctx context.Context, actor model.Actor, q CommissionQuery) ([]model.Commission, int64, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Commissions.List(ctx, f)
}

// ListBySalesperson lists the commissions of one salesperson. Salespeople may
// only ask for their own.
func (s *commissionService) ListBySalesperson(ctx context.Context, actor model.Actor, salespersonID string, q CommissionQuery) ([]model.Commission, int64, error) {
	id, err := parseID("salesperson_id", salespersonID)
	if err != nil {
		return nil, 0, err
	}
	if !canView(actor, id) {
		return nil, 0, ErrForbidden
	}
	q.SalespersonID = id.String()
	return s.ListCommissions(ctx, actor, q)
}

// commissionChange is a validated status/payment edit ready to apply.
type commissionChange struct {
	status      model.CommissionStatus
	paymentDate *time.Time
	notes       *string
}

func (s *commissionService) parseChange(status string, paymentDate, notes *string) (commissionChange, error) {
	ch := commissionChange{status: model.CommissionStatus(status), notes: notes}
	if !ch.status.Valid() {
		return ch, invalid(fmt.Sprintf("unknown commission status %q", status))
	}
	if paymentDate != nil && strings.TrimSpace(*paymentDate) != "" {
		d, err := parseDay("payment_date", *paymentDate, false)
		if err != nil {
			return ch, err
		}
		ch.paymentDate = d
	}
	if ch.status == model.CommissionStatusPaid && ch.paymentDate == nil {
		today := commission.CalendarDay(s.now())
		ch.paymentDate = &today
	}
	return ch, nil
}

func (ch commissionChange) apply(c model.Commission) model.Commission {
	c.Status = ch.status
	if ch.paymentDate != nil {
		c.PaymentDate = ch.paymentDate
	}
	if ch.notes != nil {
		c.Notes = *ch.notes
	}
	return c
}

func (s *commissionService) UpdateCommission(ctx context.Context, actor model.Actor, id string, req UpdateCommissionRequest) (*model.Commission, error) {
	if !actor.Can(model.CapManageCommissions) {
		return nil, ErrForbidden
	}
	ch, err := s.parseChange(req.Status, req.PaymentDate, req.Notes)
	if err != nil {
		return nil, err
	}
	current, err := s.GetCommission(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := commission.CheckCommissionTransition(current.Status, ch.status); err != nil {
		metrics.PolicyViolations.WithLabelValues("commission_update").Inc()
		return nil, err
	}

	updated := ch.apply(*current)
	updated.Sale = nil
	if err := s.store.Commissions.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update commission: %w", err)
	}

	if current.Status != model.CommissionStatusPaid && updated.Status == model.CommissionStatusPaid {
		metrics.CommissionsPaid.Inc()
	}
	action := model.ActionUpdate
	if current.Status != updated.Status {
		action = model.ActionStatusChange
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:      &actor,
		Action:     action,
		EntityType: model.EntityCommission,
		EntityID:   updated.ID.String(),
		Changes:    commission.DiffCommissions(*current, updated),
	})
	return &updated, nil
}

// BatchUpdate applies one status change to many commissions atomically. Every
// record is checked first and all violations are reported together; nothing
// is written unless every record may move.
func (s *commissionService) BatchUpdate(ctx context.Context, actor model.Actor, req BatchCommissionRequest) ([]model.Commission, error) {
	if !actor.Can(model.CapManageCommissions) {
		return nil, ErrForbidden
	}
	if len(req.IDs) == 0 {
		return nil, invalid("ids must list at least one commission")
	}
	ch, err := s.parseChange(req.Status, req.PaymentDate, req.Notes)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	seen := make(map[uuid.UUID]bool, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseID("ids", raw)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var updated []model.Commission
	var paid int
	var diffs [][]model.FieldDiff
	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.store.Commissions.FindByIDs(txCtx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]model.Commission, len(found))
		for _, c := range found {
			byID[c.ID] = c
		}

		var violations []string
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				violations = append(violations, fmt.Sprintf("commission %s not found", id))
				continue
			}
			if err := commission.CheckCommissionTransition(c.Status, ch.status); err != nil {
				for _, v := range policyViolations(err) {
					violations = append(violations, fmt.Sprintf("commission %s: %s", id, v))
				}
			}
		}
		if len(violations) > 0 {
			return &commission.PolicyViolation{Violations: violations}
		}

		updated, paid, diffs = nil, 0, nil
		for _, id := range ids {
			old := byID[id]
			next := ch.apply(old)
			next.Sale = nil
			if err := s.store.Commissions.Update(txCtx, &next); err != nil {
				return fmt.Errorf("failed to update commission %s: %w", id, err)
			}
			if old.Status != model.CommissionStatusPaid && next.Status == model.CommissionStatusPaid {
				paid++
			}
			updated = append(updated, next)
			diffs = append(diffs, commission.DiffCommissions(old, next))
		}
		return nil
	})
	if err != nil {
		if commission.IsPolicy(err) {
			metrics.PolicyViolations.WithLabelValues("commission_batch").Inc()
		}
		return nil, err
	}

	metrics.CommissionsPaid.Add(float64(paid))
	for i, c := range updated {
		s.audit.Record(ctx, AuditEntry{
			Actor:       &actor,
			Action:      model.ActionBatchUpdate,
			EntityType:  model.EntityCommission,
			EntityID:    c.ID.String(),
			Changes:     diffs[i],
			Description: fmt.Sprintf("Batch update of %d commission(s) to %s", len(updated), ch.status),
		})
	}
	return updated, nil
}

func (s *commissionService) CommissionStats(ctx context.Context, actor model.Actor, q CommissionQuery) (*model.CommissionStats, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, err
	}
	f.Page, f.Limit = 0, 0
	all, err := s.store.Commissions.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	stats := commission.SummarizeCommissions(all)
	return &stats, nil
}
