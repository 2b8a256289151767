package expense

import (
	"github.com/MrJamesThe3rd/expensely/internal/expense"
)

type expenseResponse struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type recordResponse struct {
	expenseResponse
	Status     expense.Status `json:"status"`
	Comment    *string        `json:"comment"`
	ReviewDate *string        `json:"review_date"`
}

type submittedResponse struct {
	expenseResponse
	Status expense.Status `json:"status"`
}

type listResponse struct {
	Expenses []recordResponse `json:"expenses"`
	Count    int              `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type submitResponse struct {
	Message string            `json:"message"`
	Expense submittedResponse `json:"expense"`
}

type getResponse struct {
	Expense recordResponse `json:"expense"`
}

type updateResponse struct {
	Message string          `json:"message"`
	Expense expenseResponse `json:"expense"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
	}
}

func toRecordResponse(rec expense.Record) recordResponse {
	return recordResponse{
		expenseResponse: toResponse(rec.Expense),
		Status:          rec.Approval.Status,
		Comment:         rec.Approval.Comment,
		ReviewDate:      rec.Approval.ReviewDate,
	}
}

func toListResponse(records []expense.Record) listResponse {
	resp := make([]recordResponse, len(records))
	for i, rec := range records {
		resp[i] = toRecordResponse(rec)
	}

	return listResponse{Expenses: resp, Count: len(resp)}
}
