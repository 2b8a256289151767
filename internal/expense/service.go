package expense

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense

// ExpenseRepository persists expenses. Create and Delete must write the
// paired approval row in the same transaction.
type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ApprovalRepository persists and queries approval records.
type ApprovalRepository interface {
	FindByExpenseID(ctx context.Context, expenseID int64) (*Approval, error)
	ListForUser(ctx context.Context, userID int64, status *Status) ([]Record, error)
	UpdateStatus(ctx context.Context, expenseID int64, review Review) (bool, error)
}

// Service enforces the expense lifecycle: ownership, pending-only
// mutation and field validation. It holds no expense state between calls.
type Service struct {
	expenses  ExpenseRepository
	approvals ApprovalRepository
	now       func() time.Time
}

type Option func(*Service)

// WithClock sets the time source used to default a missing expense date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(expenses ExpenseRepository, approvals ApprovalRepository, opts ...Option) *Service {
	s := &Service{
		expenses:  expenses,
		approvals: approvals,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	return s
}

type SubmitParams struct {
	Amount      float64
	Description string
	// Date defaults to today (UTC) when empty.
	Date string
}

type UpdateParams struct {
	Amount      float64
	Description string
	// Date keeps the stored value when empty.
	Date string
}

// Submit creates an expense owned by userID with a pending approval.
func (s *Service) Submit(ctx context.Context, userID int64, params SubmitParams) (*Expense, error) {
	description, err := validate(params.Amount, params.Description)
	if err != nil {
		return nil, err
	}

	date := params.Date
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	e := &Expense{
		UserID:      userID,
		Amount:      params.Amount,
		Description: description,
		Date:        date,
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("submitting expense: %w", err)
	}

	return e, nil
}

// List returns userID's expenses with their approvals, newest date first.
// statusFilter narrows the result only when it names a known status.
func (s *Service) List(ctx context.Context, userID int64, statusFilter string) ([]Record, error) {
	var status *Status
	if st, err := ParseStatus(statusFilter); err == nil {
		status = &st
	}

	records, err := s.approvals.ListForUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return records, nil
}

// Get returns the expense and its approval. Expenses owned by someone else
// are reported as ErrExpenseNotFound, same as missing ones.
func (s *Service) Get(ctx context.Context, expenseID, userID int64) (*Record, error) {
	e, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	if e.UserID != userID {
		return nil, ErrExpenseNotFound
	}

	a, err := s.approvals.FindByExpenseID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}

		return nil, fmt.Errorf("getting approval: %w", err)
	}

	return &Record{Expense: e, Approval: a}, nil
}

// Update rewrites amount, description and date of a pending expense.
// The approval row is left untouched.
func (s *Service) Update(ctx context.Context, expenseID, userID int64, params UpdateParams) (*Expense, error) {
	rec, err := s.Get(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}

	if rec.Approval.Status != StatusPending {
		return nil, ErrNotEditable
	}

	description, err := validate(params.Amount, params.Description)
	if err != nil {
		return nil, err
	}

	if params.Date != "" {
		if err := validateDate(params.Date); err != nil {
			return nil, err
		}

		rec.Expense.Date = params.Date
	}

	rec.Expense.Amount = params.Amount
	rec.Expense.Description = description

	if err := s.expenses.Update(ctx, rec.Expense); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}

	return rec.Expense, nil
}

// Delete removes a pending expense and its approval. It reports false when
// the expense does not exist for userID.
func (s *Service) Delete(ctx context.Context, expenseID, userID int64) (bool, error) {
	rec, err := s.Get(ctx, expenseID, userID)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return false, nil
		}

		return false, err
	}

	if rec.Approval.Status != StatusPending {
		return false, ErrNotDeletable
	}

	deleted, err := s.expenses.Delete(ctx, expenseID)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	return deleted, nil
}

// validate checks amount and description and returns the trimmed description.
func validate(amount float64, description string) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", ErrAmountNotNumber
	}

	if amount <= 0 {
		return "", ErrAmountNotPositive
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return "", ErrDescriptionMissing
	}

	return description, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ErrInvalidDate
	}

	return nil
}
