package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/expense"
)

// ExpenseStore owns the expenses table. Inserts and deletes also write the
// paired approvals row inside the same database transaction.
type ExpenseStore struct {
	db *database.DB
}

func NewExpenseStore(db *database.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

type expenseRow struct {
	ID          int64   `db:"id"`
	UserID      int64   `db:"user_id"`
	Amount      float64 `db:"amount"`
	Description string  `db:"description"`
	Date        string  `db:"date"`
}

func (r expenseRow) toExpense() *expense.Expense {
	return &expense.Expense{
		ID:          r.ID,
		UserID:      r.UserID,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        r.Date,
	}
}

// Create inserts the expense and a pending approval for it atomically.
func (s *ExpenseStore) Create(ctx context.Context, e *expense.Expense) error {
	insertExpense, expenseArgs, err := s.db.Builder.
		Insert("expenses").
		Columns("user_id", "amount", "description", "date").
		Values(e.UserID, e.Amount, e.Description, e.Date).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("building expense insert: %w", err)
	}

	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var id int64
	if err := dbTx.QueryRowxContext(ctx, insertExpense, expenseArgs...).Scan(&id); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	insertApproval, approvalArgs, err := s.db.Builder.
		Insert("approvals").
		Columns("expense_id", "status").
		Values(id, string(expense.StatusPending)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building approval insert: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, insertApproval, approvalArgs...); err != nil {
		return fmt.Errorf("creating approval: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	e.ID = id

	return nil
}

func (s *ExpenseStore) FindByID(ctx context.Context, id int64) (*expense.Expense, error) {
	query, args, err := s.db.Builder.
		Select("id", "user_id", "amount", "description", "date").
		From("expenses").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building expense query: %w", err)
	}

	var row expenseRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return row.toExpense(), nil
}

// Update rewrites amount, description and date. Ownership and the
// approval row are left as they are.
func (s *ExpenseStore) Update(ctx context.Context, e *expense.Expense) error {
	query, args, err := s.db.Builder.
		Update("expenses").
		Set("amount", e.Amount).
		Set("description", e.Description).
		Set("date", e.Date).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building expense update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	if n == 0 {
		return expense.ErrExpenseNotFound
	}

	return nil
}

// Delete removes the approval and then the expense in one transaction.
// It reports whether an expense row was removed.
func (s *ExpenseStore) Delete(ctx context.Context, id int64) (bool, error) {
	deleteApproval, approvalArgs, err := s.db.Builder.
		Delete("approvals").
		Where(sq.Eq{"expense_id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building approval delete: %w", err)
	}

	deleteExpense, expenseArgs, err := s.db.Builder.
		Delete("expenses").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building expense delete: %w", err)
	}

	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, deleteApproval, approvalArgs...); err != nil {
		return false, fmt.Errorf("deleting approval: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, deleteExpense, expenseArgs...)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}

	return n > 0, nil
}
