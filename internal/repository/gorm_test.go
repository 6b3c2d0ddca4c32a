package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commission-backend/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return db, mock
}

func TestSaleRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaleRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "client_name", "gross_value", "net_value", "status"}).
		AddRow(id.String(), "Acme", "1000.00", "900.00", "approved")
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).WillReturnRows(rows)

	sale, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if sale.ID != id || sale.ClientName != "Acme" || sale.Status != model.SaleStatusApproved {
		t.Errorf("FindByID() = %+v", sale)
	}
	if !sale.NetValue.Equal(decimal.RequireFromString("900")) {
		t.Errorf("NetValue = %s, want 900", sale.NetValue)
	}
}

func TestSaleRepository_ListCountsWithFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)
	owner := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "sales" WHERE salesperson_id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE salesperson_id = \$1 AND status = \$2 ORDER BY sale_date desc, created_at desc`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	sales, total, err := repo.List(context.Background(), SaleFilter{SalespersonID: &owner, Status: model.SaleStatusPending})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 0 || len(sales) != 0 {
		t.Errorf("List() = %d sales, total %d", len(sales), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaleRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSaleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sales" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, ErrConstraint},
		{"foreign key violation", &pgconn.PgError{Code: "23503", Message: "fk"}, ErrConstraint},
		{"duplicated key", gorm.ErrDuplicatedKey, ErrConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateError(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("translateError() = %v, want %v", got, tt.want)
			}
		})
	}

	other := &pgconn.PgError{Code: "57014", Message: "canceled"}
	if got := translateError(other); errors.Is(got, ErrConstraint) || errors.Is(got, ErrNotFound) {
		t.Errorf("translateError(57014) = %v", got)
	}
	if translateError(nil) != nil {
		t.Errorf("translateError(nil) != nil")
	}
}
