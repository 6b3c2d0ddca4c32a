package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

const tokenTTL = 24 * time.Hour

// DTOs for Request validation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Role         model.Role         `json:"role"`
	Active       bool               `json:"active"`
	Capabilities []model.Capability `json:"capabilities"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor model.Actor, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	Me(ctx context.Context, actor model.Actor) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor model.Actor, id string, req UpdateUserRequest) (*UserResponse, error)
	SeedDemoUsers(ctx context.Context) error
}

type userService struct {
	repo   repository.UserRepository
	audit  AuditSink
	secret []byte
	now    func() time.Time
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, audit AuditSink, jwtSecret []byte) UserService {
	return &userService{repo: repo, audit: audit, secret: jwtSecret, now: time.Now}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Active:       user.Active,
		Capabilities: user.Role.Capabilities(),
		CreatedAt:    user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

func (s *userService) CreateUser(ctx context.Context, actor model.Actor, req CreateUserRequest) (*UserResponse, error) {
	email := normalizeEmail(req.Email)
	if err := commission.ValidateUser(commission.UserInput{
		Name:     req.Name,
		Email:    email,
		Role:     &req.Role,
		Password: &req.Password,
	}).Err(); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalid("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.Role(req.Role),
		Active:   true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:       &actor,
		Action:      model.ActionCreate,
		EntityType:  model.EntityUser,
		EntityID:    user.ID.String(),
		Description: fmt.Sprintf("User %s (%s)", user.Email, user.Role),
	})
	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      &model.Actor{ID: user.ID, Role: user.Role},
		Action:     model.ActionLogin,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
	})
	return &TokenResponse{Token: tokenString, User: *mapToResponse(user)}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	uid, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) Me(ctx context.Context, actor model.Actor) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor model.Actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	uid, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	old := *user

	name, email := user.Name, user.Email
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
	}
	var role *string
	if req.Role != nil && *req.Role != string(user.Role) {
		role = req.Role
	}
	if err := commission.ValidateUser(commission.UserInput{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: req.Password,
	}).Err(); err != nil {
		return nil, err
	}

	if email != user.Email {
		taken, err := s.emailTaken(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, invalid("email already exists")
		}
	}
	if actor.ID == user.ID && req.Active != nil && !*req.Active {
		return nil, invalid("you cannot deactivate your own account")
	}

	user.Name = strings.TrimSpace(name)
	user.Email = email
	if role != nil {
		user.Role = model.Role(*role)
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      &actor,
		Action:     model.ActionUpdate,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
		Changes:    diffUsers(old, *user, req.Password != nil),
	})
	return mapToResponse(user), nil
}

func diffUsers(old, updated model.User, passwordChanged bool) []model.FieldDiff {
	var d []model.FieldDiff
	if old.Name != updated.Name {
		d = append(d, model.FieldDiff{Field: "name", Old: old.Name, New: updated.Name})
	}
	if old.Email != updated.Email {
		d = append(d, model.FieldDiff{Field: "email", Old: old.Email, New: updated.Email})
	}
	if old.Role != updated.Role {
		d = append(d, model.FieldDiff{Field: "role", Old: string(old.Role), New: string(updated.Role)})
	}
	if old.Active != updated.Active {
		d = append(d, model.FieldDiff{Field: "active", Old: fmt.Sprint(old.Active), New: fmt.Sprint(updated.Active)})
	}
	if passwordChanged {
		d = append(d, model.FieldDiff{Field: "password", Old: "***", New: "***"})
	}
	return d
}

type demoUser struct {
	name, email, password string
	role                  model.Role
}

var demoUsers = []demoUser{
	{"Administrador", "admin@comissoes.local", "Admin@2024", model.RoleAdmin},
	{"Financeiro", "financeiro@comissoes.local", "Financeiro@2024", model.RoleFinance},
	{"Ana Vendedora", "ana@comissoes.local", "Vendas@2024", model.RoleSalesperson},
	{"Bruno Vendedor", "bruno@comissoes.local", "Vendas@2024", model.RoleSalesperson},
}

// SeedDemoUsers provisions the demo accounts. Existing emails are left alone.
// This is the only path that creates finance accounts.
func (s *userService) SeedDemoUsers(ctx context.Context) error {
	for _, d := range demoUsers {
		taken, err := s.emailTaken(ctx, d.email)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := &model.User{
			ID:       uuid.New(),
			Name:     d.name,
			Email:    d.email,
			Password: string(hashed),
			Role:     d.role,
			Active:   true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed %s: %w", d.email, err)
		}
		log.Printf("Seeded demo user %s (%s)", d.email, d.role)
	}
	return nil
}
