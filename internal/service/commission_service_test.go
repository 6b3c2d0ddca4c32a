package service

import (
	"context"
	"errors"
	"testing"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
)

func TestUpdateCommission_PaidStampsToday(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions()
	ctx := context.Background()
	sale := f.createSale(t, f.ana, saleRequest("Padaria", "1000"))
	c, _ := f.store.Commissions.FindBySaleID(ctx, sale.ID)

	if _, err := svc.UpdateCommission(ctx, f.ana, c.ID.String(), UpdateCommissionRequest{Status: "paid"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("salesperson update: err = %v, want ErrForbidden", err)
	}

	paid, err := svc.UpdateCommission(ctx, f.finance, c.ID.String(), UpdateCommissionRequest{Status: "paid"})
	if err != nil {
		t.Fatalf("UpdateCommission() error = %v", err)
	}
	if paid.PaymentDate == nil || paid.PaymentDate.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("payment date = %v, want today", paid.PaymentDate)
	}

	notes := "pago via pix"
	again, err := svc.UpdateCommission(ctx, f.finance, c.ID.String(), UpdateCommissionRequest{Status: "paid", Notes: &notes})
	if err != nil {
		t.Fatalf("same-status edit: error = %v", err)
	}
	if again.Notes != notes {
		t.Errorf("notes = %q", again.Notes)
	}

	if _, err := svc.UpdateCommission(ctx, f.finance, c.ID.String(), UpdateCommissionRequest{Status: "cancelled"}); !commission.IsPolicy(err) {
		t.Errorf("paid -> cancelled: err = %v, want policy violation", err)
	}
}

func TestBatchUpdate_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions()
	ctx := context.Background()

	var ids []string
	for _, client := range []string{"A", "B", "C"} {
		sale := f.createSale(t, f.ana, saleRequest(client, "100"))
		c, _ := f.store.Commissions.FindBySaleID(ctx, sale.ID)
		ids = append(ids, c.ID.String())
	}

	if _, err := svc.UpdateCommission(ctx, f.manager, ids[2], UpdateCommissionRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := svc.BatchUpdate(ctx, f.manager, BatchCommissionRequest{IDs: ids, Status: "paid"})
	var pv *commission.PolicyViolation
	if !errors.As(err, &pv) || len(pv.Violations) != 1 {
		t.Fatalf("err = %v, want one violation", err)
	}
	for _, id := range ids[:2] {
		c, _ := svc.GetCommission(ctx, f.manager, id)
		if c.Status != model.CommissionStatusPending {
			t.Errorf("commission %s = %s; batch must not apply partially", id, c.Status)
		}
	}

	updated, err := svc.BatchUpdate(ctx, f.manager, BatchCommissionRequest{IDs: ids[:2], Status: "paid"})
	if err != nil {
		t.Fatalf("BatchUpdate() error = %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("updated %d, want 2", len(updated))
	}
	for _, c := range updated {
		if c.Status != model.CommissionStatusPaid || c.PaymentDate == nil {
			t.Errorf("commission %s = %+v", c.ID, c)
		}
	}

	if _, err := svc.BatchUpdate(ctx, f.manager, BatchCommissionRequest{Status: "paid"}); !commission.IsValidation(err) {
		t.Errorf("empty ids: err = %v, want validation", err)
	}
}

func TestCommissionStatsAndListing(t *testing.T) {
	f := newFixture(t)
	svc := f.commissions()
	ctx := context.Background()
	f.createSale(t, f.ana, saleRequest("A", "1000"))
	f.createSale(t, f.bruno, saleRequest("B", "2000"))

	stats, err := svc.CommissionStats(ctx, f.finance, CommissionQuery{})
	if err != nil {
		t.Fatalf("CommissionStats() error = %v", err)
	}
	if stats.TotalCommissions != 2 || !stats.TotalValue.Equal(dec("300")) {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.BySalesperson) != 2 || stats.BySalesperson[0].SalespersonID != f.bruno.ID.String() {
		t.Errorf("by salesperson = %+v", stats.BySalesperson)
	}

	if _, _, err := svc.ListBySalesperson(ctx, f.ana, f.bruno.ID.String(), CommissionQuery{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListBySalesperson of another: err = %v", err)
	}
	list, total, err := svc.ListBySalesperson(ctx, f.manager, f.ana.ID.String(), CommissionQuery{})
	if err != nil || total != 1 || list[0].SalespersonID != f.ana.ID {
		t.Errorf("ListBySalesperson() = %v, %d, %v", list, total, err)
	}
}
