package auth

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/expensely/internal/user"
)

// UserFinder is the slice of the credential store session resolution needs.
type UserFinder interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

// Service turns session tokens back into users.
type Service struct {
	tokens *TokenService
	users  UserFinder
}

func NewService(tokens *TokenService, users UserFinder) *Service {
	return &Service{tokens: tokens, users: users}
}

func (s *Service) Tokens() *TokenService { return s.tokens }

// ResolveUser validates token and loads the user it names. It fails closed:
// any validation or lookup error yields (nil, false).
func (s *Service) ResolveUser(ctx context.Context, token string) (*user.User, bool) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		slog.DebugContext(ctx, "rejecting session token", "error", err)
		return nil, false
	}

	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		slog.DebugContext(ctx, "session user lookup failed", "user_id", claims.UserID, "error", err)
		return nil, false
	}

	return u, true
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user stored by WithUser, if any.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok && u != nil
}
