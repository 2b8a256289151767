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

type ApprovalStore struct {
	db *database.DB
}

func NewApprovalStore(db *database.DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

type approvalRow struct {
	ID         int64          `db:"id"`
	ExpenseID  int64          `db:"expense_id"`
	Status     string         `db:"status"`
	Reviewer   sql.NullInt64  `db:"reviewer"`
	Comment    sql.NullString `db:"comment"`
	ReviewDate sql.NullString `db:"review_date"`
}

func (r approvalRow) toApproval() (*expense.Approval, error) {
	status, err := expense.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("decoding approval %d: %w", r.ID, err)
	}

	a := &expense.Approval{
		ID:        r.ID,
		ExpenseID: r.ExpenseID,
		Status:    status,
	}
	if r.Reviewer.Valid {
		a.Reviewer = new(r.Reviewer.Int64)
	}
	if r.Comment.Valid {
		a.Comment = new(r.Comment.String)
	}
	if r.ReviewDate.Valid {
		a.ReviewDate = new(r.ReviewDate.String)
	}

	return a, nil
}

// recordRow is one row of the expenses/approvals join.
type recordRow struct {
	expenseRow
	ApprovalID int64          `db:"approval_id"`
	Status     string         `db:"status"`
	Reviewer   sql.NullInt64  `db:"reviewer"`
	Comment    sql.NullString `db:"comment"`
	ReviewDate sql.NullString `db:"review_date"`
}

func (r recordRow) toRecord() (expense.Record, error) {
	a, err := approvalRow{
		ID:         r.ApprovalID,
		ExpenseID:  r.ID,
		Status:     r.Status,
		Reviewer:   r.Reviewer,
		Comment:    r.Comment,
		ReviewDate: r.ReviewDate,
	}.toApproval()
	if err != nil {
		return expense.Record{}, err
	}

	return expense.Record{Expense: r.toExpense(), Approval: a}, nil
}

func (s *ApprovalStore) FindByExpenseID(ctx context.Context, expenseID int64) (*expense.Approval, error) {
	query, args, err := s.db.Builder.
		Select("id", "expense_id", "status", "reviewer", "comment", "review_date").
		From("approvals").
		Where(sq.Eq{"expense_id": expenseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building approval query: %w", err)
	}

	var row approvalRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound
		}

		return nil, fmt.Errorf("getting approval: %w", err)
	}

	return row.toApproval()
}

// ListForUser joins userID's expenses with their approvals, newest date
// first and oldest insert first within a date. A nil status lists all.
func (s *ApprovalStore) ListForUser(ctx context.Context, userID int64, status *expense.Status) ([]expense.Record, error) {
	q := s.db.Builder.
		Select(
			"e.id", "e.user_id", "e.amount", "e.description", "e.date",
			"a.id AS approval_id", "a.status", "a.reviewer", "a.comment", "a.review_date",
		).
		From("expenses e").
		Join("approvals a ON a.expense_id = e.id").
		Where(sq.Eq{"e.user_id": userID}).
		OrderBy("e.date DESC", "e.id ASC")

	if status != nil {
		q = q.Where(sq.Eq{"a.status": string(*status)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building expense listing: %w", err)
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	records := make([]expense.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

// UpdateStatus records a review outcome. It reports whether an approval
// row for expenseID existed.
func (s *ApprovalStore) UpdateStatus(ctx context.Context, expenseID int64, review expense.Review) (bool, error) {
	if _, err := expense.ParseStatus(string(review.Status)); err != nil {
		return false, err
	}

	query, args, err := s.db.Builder.
		Update("approvals").
		Set("status", string(review.Status)).
		Set("reviewer", review.ReviewerID).
		Set("comment", review.Comment).
		Set("review_date", review.ReviewDate).
		Where(sq.Eq{"expense_id": expenseID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building approval update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("updating approval: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating approval: %w", err)
	}

	return n > 0, nil
}
