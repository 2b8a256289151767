package expense

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
	"github.com/MrJamesThe3rd/expensely/internal/auth"
	"github.com/MrJamesThe3rd/expensely/internal/expense"
	"github.com/MrJamesThe3rd/expensely/internal/http/payload"
	"github.com/MrJamesThe3rd/expensely/internal/http/respond"
	"github.com/MrJamesThe3rd/expensely/internal/metrics"
)

var (
	errSubmitFieldsRequired = apperr.New(apperr.InvalidArgument, "Amount and description are required")
	errUpdateFieldsRequired = apperr.New(apperr.InvalidArgument, "Amount, description, and date are required")
)

// Handler serves /api/expenses. Every route expects the authenticated
// user in the request context.
type Handler struct {
	svc *expense.Service
	rs  *respond.Responder
}

func NewHandler(svc *expense.Service, rs *respond.Responder) *Handler {
	return &Handler{svc: svc, rs: rs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to submit expense"

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	body, err := payload.Decode(w, r)
	if err != nil {
		h.fail(w, r, "submit", err, fallback)
		return
	}

	if !body.Has("amount") || !body.Has("description") {
		h.fail(w, r, "submit", errSubmitFieldsRequired, fallback)
		return
	}

	params, err := decodeFields(body)
	if err != nil {
		h.fail(w, r, "submit", err, fallback)
		return
	}

	e, err := h.svc.Submit(r.Context(), userID, expense.SubmitParams(params))
	if err != nil {
		h.fail(w, r, "submit", err, fallback)
		return
	}

	metrics.RecordExpenseOperation("submit", "success")

	respond.JSON(w, http.StatusCreated, submitResponse{
		Message: "Expense submitted successfully",
		Expense: submittedResponse{expenseResponse: toResponse(e), Status: expense.StatusPending},
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	records, err := h.svc.List(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, "list", err, "Failed to retrieve expenses")
		return
	}

	respond.JSON(w, http.StatusOK, toListResponse(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, ok := expenseID(r)
	if !ok {
		h.fail(w, r, "get", expense.ErrExpenseNotFound, "")
		return
	}

	rec, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, "get", err, "Failed to retrieve expense")
		return
	}

	respond.JSON(w, http.StatusOK, getResponse{Expense: toRecordResponse(*rec)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	const fallback = "Failed to update expense"

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, ok := expenseID(r)
	if !ok {
		h.fail(w, r, "update", expense.ErrExpenseNotFound, "")
		return
	}

	body, err := payload.Decode(w, r)
	if err != nil {
		h.fail(w, r, "update", err, fallback)
		return
	}

	if !body.Has("amount") || !body.Has("description") || !body.Has("date") {
		h.fail(w, r, "update", errUpdateFieldsRequired, fallback)
		return
	}

	params, err := decodeFields(body)
	if err != nil {
		h.fail(w, r, "update", err, fallback)
		return
	}

	e, err := h.svc.Update(r.Context(), id, userID, expense.UpdateParams(params))
	if err != nil {
		h.fail(w, r, "update", err, fallback)
		return
	}

	metrics.RecordExpenseOperation("update", "success")

	respond.JSON(w, http.StatusOK, updateResponse{
		Message: "Expense updated successfully",
		Expense: toResponse(e),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, ok := expenseID(r)
	if !ok {
		h.fail(w, r, "delete", expense.ErrExpenseNotFound, "")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id, userID)
	if err != nil {
		h.fail(w, r, "delete", err, "Failed to delete expense")
		return
	}

	if !deleted {
		h.fail(w, r, "delete", expense.ErrExpenseNotFound, "")
		return
	}

	metrics.RecordExpenseOperation("delete", "success")

	respond.JSON(w, http.StatusOK, messageResponse{Message: "Expense deleted successfully"})
}

// fields mirrors SubmitParams and UpdateParams so either can be built
// from it by conversion.
type fields struct {
	Amount      float64
	Description string
	Date        string
}

func decodeFields(body payload.Object) (fields, error) {
	amount, ok := body.Float("amount")
	if !ok {
		return fields{}, expense.ErrAmountNotNumber
	}

	description, ok := body.String("description")
	if !ok {
		return fields{}, expense.ErrDescriptionMissing
	}

	var date string
	if body.Has("date") {
		if date, ok = body.String("date"); !ok {
			return fields{}, expense.ErrInvalidDate
		}
	}

	return fields{Amount: amount, Description: description, Date: date}, nil
}

// expenseID parses the {id} path segment. Non-integer ids are reported as
// not found, like the path never matched.
func expenseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}

	return u.ID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error, fallback string) {
	metrics.RecordExpenseOperation(op, outcome(err))
	h.rs.Error(w, r, err, fallback)
}

func outcome(err error) string {
	return strings.ReplaceAll(apperr.KindOf(err).String(), " ", "_")
}
