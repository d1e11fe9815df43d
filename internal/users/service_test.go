package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type memoryUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]*User)}
}

func (r *memoryUserRepo) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memoryUserRepo) GetUser(ctx context.Context, id int64) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) CreateUser(ctx context.Context, user User) (*User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, httpx.ErrConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (r *memoryUserRepo) UpdateUser(ctx context.Context, id int64, user User) (*User, error) {
	if _, ok := r.users[id]; !ok {
		return nil, httpx.ErrNotFound
	}
	user.ID = id
	r.users[id] = &user
	copied := user
	return &copied, nil
}

func (r *memoryUserRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "Jo@Example.com",
		Name:     "Jo",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "jo@example.com", user.Email)
	require.Equal(t, "staff", user.Role)
	require.NotEqual(t, "supersecret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "jo@example.com",
		Name:     "Jo",
		Password: "short",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "jo@example.com",
		Name:     "Jo",
		Role:     "superuser",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jo@example.com", Name: "Jo", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jo@example.com", Name: "Other", Password: "supersecret",
	})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestUpdateUserKeepsHashWithoutNewPassword(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jo@example.com", Name: "Jo", Password: "supersecret",
	})
	require.NoError(t, err)
	originalHash := user.PasswordHash

	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Name: "Joanna",
	})
	require.NoError(t, err)
	require.Equal(t, "Joanna", updated.Name)
	require.Equal(t, originalHash, updated.PasswordHash)
}

func TestUpdateUserWithoutIsActiveKeepsActivation(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jo@example.com", Name: "Jo", Password: "supersecret",
	})
	require.NoError(t, err)
	require.True(t, user.IsActive)

	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{
		Name: "Joanna",
	})
	require.NoError(t, err)
	require.True(t, updated.IsActive)
}

func TestUpdateUserDeactivates(t *testing.T) {
	svc := NewService(newMemoryUserRepo())

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email: "jo@example.com", Name: "Jo", Password: "supersecret",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Equal(t, "Jo", updated.Name)
}
