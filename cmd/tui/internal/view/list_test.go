package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/expensely/internal/expense"
	"github.com/MrJamesThe3rd/expensely/internal/user"
)

func newTestList(t *testing.T) (ListModel, *expense.MockExpenseRepository, *expense.MockApprovalRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	expenses := expense.NewMockExpenseRepository(ctrl)
	approvals := expense.NewMockApprovalRepository(ctrl)

	u := &user.User{ID: 1, Username: "employee1", Role: user.RoleEmployee}

	return NewListModel(expense.NewService(expenses, approvals), u), expenses, approvals
}

func records() []expense.Record {
	return []expense.Record{
		{
			Expense:  &expense.Expense{ID: 2, UserID: 1, Amount: 12.5, Description: "Taxi", Date: "2025-12-02"},
			Approval: &expense.Approval{ExpenseID: 2, Status: expense.StatusDenied, Comment: new("No receipt")},
		},
		{
			Expense:  &expense.Expense{ID: 1, UserID: 1, Amount: 100.1, Description: "Lunch", Date: "2025-12-01"},
			Approval: &expense.Approval{ExpenseID: 1, Status: expense.StatusPending},
		},
	}
}

func TestListModel_LoadAndRender(t *testing.T) {
	m, _, approvals := newTestList(t)
	approvals.EXPECT().ListForUser(gomock.Any(), int64(1), gomock.Nil()).Return(records(), nil)

	msg := m.Init()()
	next, _ := m.Update(msg)
	m = next.(ListModel)

	out := m.View()
	assert.Contains(t, out, "Taxi")
	assert.Contains(t, out, "100.10")
	assert.Contains(t, out, "No receipt")
	assert.Contains(t, out, "2 expenses")
}

func TestListModel_StatusFilterCycles(t *testing.T) {
	m, _, approvals := newTestList(t)

	next, _ := m.Update(loadListMsg{records: records()})
	m = next.(ListModel)

	approvals.EXPECT().
		ListForUser(gomock.Any(), int64(1), new(expense.StatusPending)).
		Return(records()[1:], nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(ListModel)
	require.NotNil(t, cmd)

	loaded, ok := cmd().(loadListMsg)
	require.True(t, ok)
	assert.Len(t, loaded.records, 1)
}

func TestListModel_EditReviewedIsRefused(t *testing.T) {
	m, _, _ := newTestList(t)

	next, _ := m.Update(loadListMsg{records: records()})
	m = next.(ListModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(ListModel)

	assert.Equal(t, listStateBrowse, m.state)
	assert.Equal(t, expense.ErrNotEditable.Msg, m.status)
}

func TestListModel_DeleteReviewedReportsError(t *testing.T) {
	m, expenses, approvals := newTestList(t)

	next, _ := m.Update(loadListMsg{records: records()})
	m = next.(ListModel)

	expenses.EXPECT().FindByID(gomock.Any(), int64(2)).Return(records()[0].Expense, nil)
	approvals.EXPECT().FindByExpenseID(gomock.Any(), int64(2)).Return(records()[0].Approval, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	saved, ok := cmd().(listSaveMsg)
	require.True(t, ok)
	assert.ErrorIs(t, saved.err, expense.ErrNotDeletable)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "12.50", FormatAmount(12.5))
	assert.Equal(t, "-", FormatOptional(nil))
	assert.Equal(t, "ok", FormatOptional(new("ok")))
	assert.Equal(t, "Expense not found", ErrorText(expense.ErrExpenseNotFound))
}
