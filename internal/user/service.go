package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
}

type Service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// NewServiceWithCost is NewService with a custom bcrypt cost, mostly for tests.
func NewServiceWithCost(repo Repository, cost int) *Service {
	return &Service{repo: repo, cost: cost}
}

// Authenticate resolves username and checks password against the stored hash.
// Unknown users, non-employee rows and wrong passwords all yield
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRole) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Register creates an employee with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	u, err := New(username, password, RoleEmployee)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u.Password = string(hash)

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// EnsureUser registers username unless it already exists. The bool reports
// whether a new user was created.
func (s *Service) EnsureUser(ctx context.Context, username, password string) (*User, bool, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("finding user: %w", err)
	}

	u, err := s.Register(ctx, username, password)
	if err != nil {
		return nil, false, err
	}

	return u, true, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
