package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"commission-backend/internal/model"
)

func seedSale(t *testing.T, store *Store, owner uuid.UUID, client string, day int, status model.SaleStatus) model.Sale {
	t.Helper()
	s := model.Sale{
		SalespersonID: owner,
		ClientName:    client,
		ClientEmail:   "contato@" + client + ".com",
		GrossValue:    decimal.NewFromInt(100),
		NetValue:      decimal.NewFromInt(100),
		CommissionPct: decimal.NewFromInt(10),
		Status:        status,
		SaleDate:      time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Sales.Create(context.Background(), &s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return s
}

func TestMemorySales_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ana, bia := uuid.New(), uuid.New()

	seedSale(t, store, ana, "alfa", 1, model.SaleStatusPending)
	seedSale(t, store, ana, "beta", 5, model.SaleStatusApproved)
	seedSale(t, store, bia, "gama", 3, model.SaleStatusPending)

	sales, total, err := store.Sales.List(ctx, SaleFilter{SalespersonID: &ana})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(sales) != 2 {
		t.Fatalf("got %d/%d sales, want 2", len(sales), total)
	}
	if sales[0].ClientName != "beta" {
		t.Errorf("first sale = %s, want newest (beta)", sales[0].ClientName)
	}

	sales, _, _ = store.Sales.List(ctx, SaleFilter{Search: "GAM"})
	if len(sales) != 1 || sales[0].SalespersonID != bia {
		t.Errorf("search returned %+v", sales)
	}

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sales, _, _ = store.Sales.List(ctx, SaleFilter{From: &from, To: &to})
	if len(sales) != 1 || sales[0].ClientName != "gama" {
		t.Errorf("date range returned %+v", sales)
	}

	sales, total, _ = store.Sales.List(ctx, SaleFilter{Page: 2, Limit: 2})
	if total != 3 || len(sales) != 1 || sales[0].ClientName != "alfa" {
		t.Errorf("page 2 = %+v (total %d)", sales, total)
	}

	sales, _, _ = store.Sales.List(ctx, SaleFilter{Status: model.SaleStatusApproved})
	if len(sales) != 1 || sales[0].ClientName != "beta" {
		t.Errorf("status filter returned %+v", sales)
	}
}

func TestMemorySales_NotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Sales.FindByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID() error = %v, want ErrNotFound", err)
	}
	if err := store.Sales.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCommissions_OnePerSale(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sale := seedSale(t, store, uuid.New(), "alfa", 1, model.SaleStatusPending)

	first := model.Commission{SaleID: sale.ID, SalespersonID: sale.SalespersonID, Status: model.CommissionStatusPending}
	if err := store.Commissions.Create(ctx, &first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dup := model.Commission{SaleID: sale.ID, SalespersonID: sale.SalespersonID}
	if err := store.Commissions.Create(ctx, &dup); !errors.Is(err, ErrConstraint) {
		t.Errorf("duplicate Create() error = %v, want ErrConstraint", err)
	}
	orphan := model.Commission{SaleID: uuid.New()}
	if err := store.Commissions.Create(ctx, &orphan); !errors.Is(err, ErrConstraint) {
		t.Errorf("orphan Create() error = %v, want ErrConstraint", err)
	}

	got, err := store.Commissions.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Sale == nil || got.Sale.ID != sale.ID {
		t.Errorf("commission sale not loaded: %+v", got.Sale)
	}

	if err := store.Sales.Delete(ctx, sale.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Commissions.FindBySaleID(ctx, sale.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("commission survived sale deletion: %v", err)
	}
}

func TestMemoryTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	kept := seedSale(t, store, uuid.New(), "kept", 1, model.SaleStatusPending)

	boom := errors.New("boom")
	err := store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		s := model.Sale{SalespersonID: uuid.New(), ClientName: "rolled back", SaleDate: time.Now()}
		if err := store.Sales.Create(txCtx, &s); err != nil {
			return err
		}
		kept.Status = model.SaleStatusCancelled
		if err := store.Sales.Update(txCtx, &kept); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx() error = %v, want boom", err)
	}

	all, _ := store.Sales.FindAll(ctx, SaleFilter{})
	if len(all) != 1 || all[0].Status != model.SaleStatusPending {
		t.Errorf("state after rollback = %+v", all)
	}
}

func TestMemoryUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := model.User{Name: "Ana", Email: "ana@example.com", Role: model.RoleSalesperson}
	if err := store.Users.Create(ctx, &a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b := model.User{Name: "Outra Ana", Email: "ana@example.com", Role: model.RoleSalesperson}
	if err := store.Users.Create(ctx, &b); !errors.Is(err, ErrConstraint) {
		t.Errorf("Create() error = %v, want ErrConstraint", err)
	}
	got, err := store.Users.GetByEmail(ctx, "ana@example.com")
	if err != nil || got.ID != a.ID {
		t.Errorf("GetByEmail() = %+v, %v", got, err)
	}
}

func TestMemoryAudit_ListNewestFirstWithUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	u := model.User{Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	if err := store.Users.Create(ctx, &u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, action := range []string{model.ActionCreate, model.ActionUpdate} {
		entry := model.AuditLog{UserID: &u.ID, Action: action, EntityType: model.EntitySale, EntityID: "x"}
		if err := store.Audit.Log(ctx, &entry); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}
	logs, total, err := store.Audit.List(ctx, AuditFilter{EntityType: model.EntitySale})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || logs[0].Action != model.ActionUpdate {
		t.Errorf("List() = %+v", logs)
	}
	if logs[0].User == nil || logs[0].User.Name != "Admin" {
		t.Errorf("user not attached: %+v", logs[0].User)
	}
}
