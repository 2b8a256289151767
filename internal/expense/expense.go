package expense

import (
	"fmt"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
)

// Status is the review state of an expense's approval record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// ParseStatus accepts only the three known statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusDenied:
		return st, nil
	}

	return "", fmt.Errorf("invalid approval status %q", s)
}

var (
	ErrExpenseNotFound = apperr.New(apperr.NotFound, "Expense not found")
	ErrNotEditable     = apperr.New(apperr.NotEditable, "Cannot edit expense that has been reviewed")
	ErrNotDeletable    = apperr.New(apperr.NotEditable, "Cannot delete expense that has been reviewed")

	ErrAmountNotPositive  = apperr.New(apperr.InvalidArgument, "Amount must be greater than 0")
	ErrAmountNotNumber    = apperr.New(apperr.InvalidArgument, "Amount must be a valid number")
	ErrDescriptionMissing = apperr.New(apperr.InvalidArgument, "Description is required")
	ErrInvalidDate        = apperr.New(apperr.InvalidArgument, "Date must be in YYYY-MM-DD format")
)

// Expense is a claim submitted by an employee. Date is a calendar date
// formatted YYYY-MM-DD.
type Expense struct {
	ID          int64
	UserID      int64
	Amount      float64
	Description string
	Date        string
}

// Approval is the review record paired one-to-one with an Expense.
type Approval struct {
	ID         int64
	ExpenseID  int64
	Status     Status
	Reviewer   *int64
	Comment    *string
	ReviewDate *string
}

// Record is an expense together with its approval.
type Record struct {
	Expense  *Expense
	Approval *Approval
}

// Review carries the fields written when an approval leaves pending.
type Review struct {
	Status     Status
	ReviewerID *int64
	Comment    *string
	ReviewDate *string
}
