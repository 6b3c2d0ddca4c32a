package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
)

var testSecret = []byte("test-secret")

func TestCreateUserAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.audit, testSecret)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, f.admin, CreateUserRequest{
		Name:     "Carla",
		Email:    " Carla@Empresa.com ",
		Password: "Segura#123",
		Role:     "salesperson",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Email != "carla@empresa.com" || created.Role != model.RoleSalesperson {
		t.Errorf("user = %+v", created)
	}

	tok, err := svc.Login(ctx, LoginUserRequest{Email: "carla@empresa.com", Password: "Segura#123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != created.ID.String() || claims["role"] != "salesperson" {
		t.Errorf("claims = %v", claims)
	}

	if _, err := svc.Login(ctx, LoginUserRequest{Email: "carla@empresa.com", Password: "errada"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, LoginUserRequest{Email: "ninguem@empresa.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestCreateUser_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.audit, testSecret)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"weak password", CreateUserRequest{Name: "A", Email: "a@b.com", Password: "fraca", Role: "admin"}},
		{"finance not assignable", CreateUserRequest{Name: "A", Email: "a@b.com", Password: "Segura#123", Role: "finance"}},
		{"duplicate email", CreateUserRequest{Name: "A", Email: "ana@test.local", Password: "Segura#123", Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, f.admin, tt.req); !commission.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.audit, testSecret)
	ctx := context.Background()

	// keeping the existing finance role is not a role change
	name := "Fin"
	role := "finance"
	got, err := svc.UpdateUser(ctx, f.admin, f.finance.ID.String(), UpdateUserRequest{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if got.Name != "Fin" || got.Role != model.RoleFinance {
		t.Errorf("user = %+v", got)
	}

	inactive := false
	if _, err := svc.UpdateUser(ctx, f.admin, f.admin.ID.String(), UpdateUserRequest{Active: &inactive}); !commission.IsValidation(err) {
		t.Errorf("self deactivation: err = %v", err)
	}
	got, err = svc.UpdateUser(ctx, f.admin, f.bruno.ID.String(), UpdateUserRequest{Active: &inactive})
	if err != nil || got.Active {
		t.Errorf("deactivate bruno: %+v, %v", got, err)
	}
}

func TestSeedDemoUsers_Idempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.audit, testSecret)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.SeedDemoUsers(ctx); err != nil {
			t.Fatalf("SeedDemoUsers() error = %v", err)
		}
	}
	users, _ := f.store.Users.FindAll(ctx)
	if len(users) != 5+len(demoUsers) {
		t.Errorf("got %d users, want %d", len(users), 5+len(demoUsers))
	}
	fin, err := f.store.Users.GetByEmail(ctx, "financeiro@comissoes.local")
	if err != nil || fin.Role != model.RoleFinance {
		t.Errorf("finance demo user = %+v, %v", fin, err)
	}
}
