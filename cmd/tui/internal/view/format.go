package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
	"github.com/MrJamesThe3rd/expensely/internal/expense"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an expense amount with two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatOptional renders a nullable review field.
func FormatOptional(s *string) string {
	if s == nil {
		return "-"
	}

	return *s
}

// FormatStatus colours an approval status.
func FormatStatus(s expense.Status) string {
	color := lipgloss.Color("214")
	switch s {
	case expense.StatusApproved:
		color = lipgloss.Color("46")
	case expense.StatusDenied:
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Foreground(color).Render(string(s))
}

// ErrorText returns the client-facing message of err.
func ErrorText(err error) string {
	return apperr.Message(err, err.Error())
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
