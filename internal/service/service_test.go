package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-backend/internal/commission"
	"commission-backend/internal/config"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *recordingSink) Record(_ context.Context, e AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingSink) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

type recordingNotifier struct {
	got []model.Notification
}

func (r *recordingNotifier) Notify(n model.Notification) { r.got = append(r.got, n) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// testBusiness uses a composite tax of 10.15%.
func testBusiness() config.Business {
	b := config.DefaultBusiness()
	b.Tax = commission.TaxConfig{
		IncomeTax: dec("0.015"),
		PIS:       dec("0.0065"),
		COFINS:    dec("0.03"),
		CSLL:      dec("0.01"),
		ISS:       dec("0.04"),
	}
	return b
}

type fixture struct {
	store    *repository.Store
	audit    *recordingSink
	notifier *recordingNotifier
	admin    model.Actor
	manager  model.Actor
	finance  model.Actor
	ana      model.Actor
	bruno    model.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repository.NewMemoryStore(),
		audit:    &recordingSink{},
		notifier: &recordingNotifier{},
	}
	add := func(name string, role model.Role) model.Actor {
		u := model.User{ID: uuid.New(), Name: name, Email: name + "@test.local", Role: role, Active: true}
		if err := f.store.Users.Create(context.Background(), &u); err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		return model.Actor{ID: u.ID, Role: role}
	}
	f.admin = add("admin", model.RoleAdmin)
	f.manager = add("manager", model.RoleManager)
	f.finance = add("finance", model.RoleFinance)
	f.ana = add("ana", model.RoleSalesperson)
	f.bruno = add("bruno", model.RoleSalesperson)
	return f
}

func (f *fixture) sales() *saleService {
	s := NewSaleService(f.store, testBusiness(), f.audit, f.notifier).(*saleService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (f *fixture) commissions() *commissionService {
	s := NewCommissionService(f.store, f.audit).(*commissionService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (f *fixture) marketing() *marketingService {
	s := NewMarketingService(f.store, testBusiness(), f.audit, f.notifier).(*marketingService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func saleRequest(client, gross string) CreateSaleRequest {
	return CreateSaleRequest{
		ClientName:    client,
		ClientEmail:   "contato@cliente.com",
		GrossValue:    decPtr(gross),
		CommissionPct: decPtr("10"),
		SaleDate:      "2024-03-10",
	}
}

func (f *fixture) createSale(t *testing.T, actor model.Actor, req CreateSaleRequest) *model.Sale {
	t.Helper()
	sale, err := f.sales().CreateSale(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}
	return sale
}
