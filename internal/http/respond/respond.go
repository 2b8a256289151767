package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
)

// Responder writes JSON bodies. Internal error details are included only
// when ShowDetails is set.
type Responder struct {
	ShowDetails bool
}

func New(showDetails bool) *Responder {
	return &Responder{ShowDetails: showDetails}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Fail writes {"error": msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.AuthenticationRequired:
		return http.StatusUnauthorized
	case apperr.AccessDenied:
		return http.StatusForbidden
	case apperr.InvalidArgument, apperr.NotEditable:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// Error writes err using the status of its kind. Classified errors carry
// their own message; anything else is logged and answered with fallback.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	if status != http.StatusInternalServerError {
		Fail(w, status, apperr.Message(err, fallback))
		return
	}

	slog.ErrorContext(r.Context(), fallback, "method", r.Method, "path", r.URL.Path, "error", err)

	resp := errorResponse{Error: fallback}
	if rs.ShowDetails {
		resp.Details = err.Error()
	}

	JSON(w, status, resp)
}
