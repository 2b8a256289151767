package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
	"github.com/MrJamesThe3rd/expensely/internal/auth"
	"github.com/MrJamesThe3rd/expensely/internal/http/payload"
	"github.com/MrJamesThe3rd/expensely/internal/http/respond"
	"github.com/MrJamesThe3rd/expensely/internal/metrics"
	"github.com/MrJamesThe3rd/expensely/internal/user"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt_token"

type Handler struct {
	users        *user.Service
	sessions     *auth.Service
	rs           *respond.Responder
	secureCookie bool
}

func NewHandler(users *user.Service, sessions *auth.Service, rs *respond.Responder, secureCookie bool) *Handler {
	return &Handler{
		users:        users,
		sessions:     sessions,
		rs:           rs,
		secureCookie: secureCookie,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/status", h.status)
}

type userResponse struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type statusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, err := payload.Decode(w, r)
	if err != nil {
		metrics.RecordAuth("login", "bad_request")
		h.rs.Error(w, r, err, "Login failed")

		return
	}

	username, _ := body.String("username")
	password, _ := body.String("password")

	u, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		kind := apperr.KindOf(err)
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			slog.WarnContext(r.Context(), "login rejected", "username", username, "reason", "invalid credentials")
			metrics.RecordAuth("login", "invalid_credentials")
		case kind == apperr.InvalidArgument:
			metrics.RecordAuth("login", "bad_request")
		default:
			metrics.RecordAuth("login", "error")
			err = apperr.Wrap(apperr.Internal, "authenticating", err)
		}

		h.rs.Error(w, r, err, "Login failed")

		return
	}

	token, err := h.sessions.Tokens().Issue(u)
	if err != nil {
		metrics.RecordAuth("login", "error")
		h.rs.Error(w, r, err, "Login failed")

		return
	}

	http.SetCookie(w, h.cookie(token, int(h.sessions.Tokens().TTL().Seconds())))
	metrics.RecordAuth("login", "success")

	respond.JSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    toUserResponse(u),
	})
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.cookie("", -1))

	respond.JSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		respond.JSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	u, ok := h.sessions.ResolveUser(r.Context(), c.Value)
	if !ok {
		respond.JSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	resp := toUserResponse(u)
	respond.JSON(w, http.StatusOK, statusResponse{Authenticated: true, User: &resp})
}

// RequireEmployee admits requests whose session cookie resolves to an
// existing Employee and stores that user in the request context.
func (h *Handler) RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieName)
		if err != nil || c.Value == "" {
			metrics.RecordAuth("gate", "unauthenticated")
			respond.Fail(w, http.StatusUnauthorized, "Authentication required")

			return
		}

		u, ok := h.sessions.ResolveUser(r.Context(), c.Value)
		if !ok || u.Role != user.RoleEmployee {
			metrics.RecordAuth("gate", "denied")
			respond.Fail(w, http.StatusForbidden, "Access denied")

			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}

func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
