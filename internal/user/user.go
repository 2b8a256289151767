package user

import (
	"strings"

	"github.com/MrJamesThe3rd/expensely/internal/apperr"
)

// Role is the access role stored with a user.
type Role string

// RoleEmployee is the only role this service accepts.
const RoleEmployee Role = "Employee"

var (
	ErrNotFound           = apperr.New(apperr.NotFound, "User not found")
	ErrInvalidRole        = apperr.New(apperr.AccessDenied, "Role must be 'Employee'")
	ErrUsernameTaken      = apperr.New(apperr.InvalidArgument, "Username already exists")
	ErrInvalidCredentials = apperr.New(apperr.AuthenticationRequired, "Invalid credentials")
	ErrMissingCredentials = apperr.New(apperr.InvalidArgument, "Username and password required")
)

// User is an employee account. Password holds a bcrypt hash.
type User struct {
	ID       int64
	Username string
	Password string
	Role     Role
}

// New builds an unsaved user, enforcing the role invariant.
func New(username, password string, role Role) (*User, error) {
	u := &User{
		Username: strings.TrimSpace(username),
		Password: password,
		Role:     role,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks the invariants every persisted user satisfies.
func (u *User) Validate() error {
	if u.Role != RoleEmployee {
		return ErrInvalidRole
	}

	if u.Username == "" || u.Password == "" {
		return ErrMissingCredentials
	}

	return nil
}
