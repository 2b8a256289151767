package expense_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/expensely/internal/expense"
)

const (
	ownerID = int64(1)
	otherID = int64(2)
)

type mocks struct {
	expenses  *expense.MockExpenseRepository
	approvals *expense.MockApprovalRepository
}

func newService(t *testing.T, opts ...expense.Option) (*expense.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		expenses:  expense.NewMockExpenseRepository(ctrl),
		approvals: expense.NewMockApprovalRepository(ctrl),
	}

	return expense.NewService(m.expenses, m.approvals, opts...), m
}

func pending(expenseID int64) *expense.Approval {
	return &expense.Approval{ID: expenseID, ExpenseID: expenseID, Status: expense.StatusPending}
}

func TestService_Submit(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 12, 19, 23, 30, 0, 0, time.FixedZone("X", -5*3600)) }

	type testCase struct {
		name      string
		params    expense.SubmitParams
		setupMock func(m mocks)
		want      *expense.Expense
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: expense.SubmitParams{Amount: 100.1, Description: "  Lunch  ", Date: "2025-12-19"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().
					Create(gomock.Any(), &expense.Expense{UserID: ownerID, Amount: 100.1, Description: "Lunch", Date: "2025-12-19"}).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = 10
						return nil
					})
			},
			want: &expense.Expense{ID: 10, UserID: ownerID, Amount: 100.1, Description: "Lunch", Date: "2025-12-19"},
		},
		{
			name:   "DefaultsDateToTodayUTC",
			params: expense.SubmitParams{Amount: 5, Description: "Coffee"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = 11
						return nil
					})
			},
			want: &expense.Expense{ID: 11, UserID: ownerID, Amount: 5, Description: "Coffee", Date: "2025-12-20"},
		},
		{
			name:    "ZeroAmount",
			params:  expense.SubmitParams{Amount: 0, Description: "Lunch"},
			wantErr: expense.ErrAmountNotPositive,
		},
		{
			name:    "NegativeAmount",
			params:  expense.SubmitParams{Amount: -3, Description: "Lunch"},
			wantErr: expense.ErrAmountNotPositive,
		},
		{
			name:    "NaNAmount",
			params:  expense.SubmitParams{Amount: math.NaN(), Description: "Lunch"},
			wantErr: expense.ErrAmountNotNumber,
		},
		{
			name:    "InfiniteAmount",
			params:  expense.SubmitParams{Amount: math.Inf(1), Description: "Lunch"},
			wantErr: expense.ErrAmountNotNumber,
		},
		{
			name:    "BlankDescription",
			params:  expense.SubmitParams{Amount: 10, Description: " \t "},
			wantErr: expense.ErrDescriptionMissing,
		},
		{
			name:    "BadDate",
			params:  expense.SubmitParams{Amount: 10, Description: "Taxi", Date: "19/12/2025"},
			wantErr: expense.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, expense.WithClock(clock))
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Submit(context.Background(), ownerID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Submit_RepoError(t *testing.T) {
	svc, m := newService(t)
	m.expenses.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	got, err := svc.Submit(context.Background(), ownerID, expense.SubmitParams{Amount: 1, Description: "x"})
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestService_List(t *testing.T) {
	records := []expense.Record{
		{Expense: &expense.Expense{ID: 2, Date: "2025-12-20"}, Approval: pending(2)},
		{Expense: &expense.Expense{ID: 1, Date: "2025-12-19"}, Approval: pending(1)},
	}

	type testCase struct {
		name      string
		filter    string
		setupMock func(m mocks)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "NoFilter",
			filter: "",
			setupMock: func(m mocks) {
				m.approvals.EXPECT().ListForUser(gomock.Any(), ownerID, gomock.Nil()).Return(records, nil)
			},
			wantLen: 2,
		},
		{
			name:   "KnownStatus",
			filter: "approved",
			setupMock: func(m mocks) {
				m.approvals.EXPECT().
					ListForUser(gomock.Any(), ownerID, new(expense.StatusApproved)).
					Return(records[:1], nil)
			},
			wantLen: 1,
		},
		{
			name:   "UnknownStatusMeansNoFilter",
			filter: "archived",
			setupMock: func(m mocks) {
				m.approvals.EXPECT().ListForUser(gomock.Any(), ownerID, gomock.Nil()).Return(records, nil)
			},
			wantLen: 2,
		},
		{
			name:   "StoreError",
			filter: "",
			setupMock: func(m mocks) {
				m.approvals.EXPECT().ListForUser(gomock.Any(), ownerID, gomock.Nil()).Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.List(context.Background(), ownerID, tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Get(t *testing.T) {
	owned := &expense.Expense{ID: 5, UserID: ownerID, Amount: 12, Description: "Taxi", Date: "2025-12-01"}

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)
		m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
		m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)

		got, err := svc.Get(context.Background(), 5, ownerID)
		require.NoError(t, err)
		assert.Equal(t, owned, got.Expense)
		assert.Equal(t, expense.StatusPending, got.Approval.Status)
	})

	t.Run("OtherOwnerLooksMissing", func(t *testing.T) {
		svc, m := newService(t)
		m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)

		got, err := svc.Get(context.Background(), 5, otherID)
		assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
		assert.Nil(t, got)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, m := newService(t)
		m.expenses.EXPECT().FindByID(gomock.Any(), int64(9)).Return(nil, expense.ErrExpenseNotFound)

		_, err := svc.Get(context.Background(), 9, ownerID)
		assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
	})

	t.Run("MissingApproval", func(t *testing.T) {
		svc, m := newService(t)
		m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
		m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(nil, expense.ErrExpenseNotFound)

		_, err := svc.Get(context.Background(), 5, ownerID)
		assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
	})

	t.Run("StoreError", func(t *testing.T) {
		svc, m := newService(t)
		m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(nil, errors.New("db down"))

		_, err := svc.Get(context.Background(), 5, ownerID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, expense.ErrExpenseNotFound)
	})
}

func TestService_Update(t *testing.T) {
	stored := func() *expense.Expense {
		return &expense.Expense{ID: 5, UserID: ownerID, Amount: 12, Description: "Taxi", Date: "2025-12-01"}
	}

	type testCase struct {
		name      string
		userID    int64
		params    expense.UpdateParams
		setupMock func(m mocks)
		want      *expense.Expense
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			userID: ownerID,
			params: expense.UpdateParams{Amount: 20, Description: " Airport taxi ", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
				m.expenses.EXPECT().
					Update(gomock.Any(), &expense.Expense{ID: 5, UserID: ownerID, Amount: 20, Description: "Airport taxi", Date: "2025-12-02"}).
					Return(nil)
			},
			want: &expense.Expense{ID: 5, UserID: ownerID, Amount: 20, Description: "Airport taxi", Date: "2025-12-02"},
		},
		{
			name:   "Approved",
			userID: ownerID,
			params: expense.UpdateParams{Amount: 20, Description: "x", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().
					FindByExpenseID(gomock.Any(), int64(5)).
					Return(&expense.Approval{ExpenseID: 5, Status: expense.StatusApproved}, nil)
			},
			wantErr: expense.ErrNotEditable,
		},
		{
			name:   "Denied",
			userID: ownerID,
			params: expense.UpdateParams{Amount: 20, Description: "x", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().
					FindByExpenseID(gomock.Any(), int64(5)).
					Return(&expense.Approval{ExpenseID: 5, Status: expense.StatusDenied}, nil)
			},
			wantErr: expense.ErrNotEditable,
		},
		{
			name:   "ReviewedCheckPrecedesValidation",
			userID: ownerID,
			params: expense.UpdateParams{Amount: -1, Description: ""},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().
					FindByExpenseID(gomock.Any(), int64(5)).
					Return(&expense.Approval{ExpenseID: 5, Status: expense.StatusApproved}, nil)
			},
			wantErr: expense.ErrNotEditable,
		},
		{
			name:   "InvalidAmount",
			userID: ownerID,
			params: expense.UpdateParams{Amount: 0, Description: "x", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
			},
			wantErr: expense.ErrAmountNotPositive,
		},
		{
			name:   "BlankDescription",
			userID: ownerID,
			params: expense.UpdateParams{Amount: 1, Description: "   ", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
				m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
			},
			wantErr: expense.ErrDescriptionMissing,
		},
		{
			name:   "NotOwner",
			userID: otherID,
			params: expense.UpdateParams{Amount: 1, Description: "x", Date: "2025-12-02"},
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stored(), nil)
			},
			wantErr: expense.ErrExpenseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Update(context.Background(), 5, tt.userID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update_EmptyDateKeepsStored(t *testing.T) {
	svc, m := newService(t)
	m.expenses.EXPECT().
		FindByID(gomock.Any(), int64(5)).
		Return(&expense.Expense{ID: 5, UserID: ownerID, Amount: 12, Description: "Taxi", Date: "2025-12-01"}, nil)
	m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
	m.expenses.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), 5, ownerID, expense.UpdateParams{Amount: 3, Description: "Bus"})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", got.Date)
}

func TestService_Delete(t *testing.T) {
	owned := &expense.Expense{ID: 5, UserID: ownerID}

	type testCase struct {
		name      string
		userID    int64
		setupMock func(m mocks)
		want      bool
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			userID: ownerID,
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
				m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
				m.expenses.EXPECT().Delete(gomock.Any(), int64(5)).Return(true, nil)
			},
			want: true,
		},
		{
			name:   "Missing",
			userID: ownerID,
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(nil, expense.ErrExpenseNotFound)
			},
			want: false,
		},
		{
			name:   "NotOwner",
			userID: otherID,
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
			},
			want: false,
		},
		{
			name:   "Reviewed",
			userID: ownerID,
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
				m.approvals.EXPECT().
					FindByExpenseID(gomock.Any(), int64(5)).
					Return(&expense.Approval{ExpenseID: 5, Status: expense.StatusDenied}, nil)
			},
			wantErr: expense.ErrNotDeletable,
		},
		{
			name:   "RowAlreadyGone",
			userID: ownerID,
			setupMock: func(m mocks) {
				m.expenses.EXPECT().FindByID(gomock.Any(), int64(5)).Return(owned, nil)
				m.approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(5)).Return(pending(5), nil)
				m.expenses.EXPECT().Delete(gomock.Any(), int64(5)).Return(false, nil)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			got, err := svc.Delete(context.Background(), 5, tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "denied"} {
		got, err := expense.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, expense.Status(s), got)
	}

	_, err := expense.ParseStatus("Pending")
	assert.Error(t, err)

	_, err = expense.ParseStatus("")
	assert.Error(t, err)
}
