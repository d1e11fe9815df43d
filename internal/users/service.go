package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, user User) (*User, error)
	UpdateUser(ctx context.Context, id int64, user User) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListRoles returns the role names accounts can hold.
func (s *Service) ListRoles() []string {
	return Roles
}

func validRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CreateUser hashes the password and stores the account.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("email and name are required: %w", httpx.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", httpx.ErrValidation)
	}
	role := input.Role
	if role == "" {
		role = "staff"
	}
	if !validRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, httpx.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	return s.repo.CreateUser(ctx, User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         input.Name,
		Role:         role,
		PasswordHash: string(hashed),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UpdateUser changes account fields, rehashing the password only when
// a new one is supplied.
func (s *Service) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*User, error) {
	existing, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		existing.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Name != "" {
		existing.Name = input.Name
	}
	if input.Role != "" {
		if !validRole(input.Role) {
			return nil, fmt.Errorf("unknown role %q: %w", input.Role, httpx.ErrValidation)
		}
		existing.Role = input.Role
	}
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters: %w", httpx.ErrValidation)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		existing.PasswordHash = string(hashed)
	}
	existing.UpdatedAt = time.Now()
	return s.repo.UpdateUser(ctx, id, *existing)
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}
