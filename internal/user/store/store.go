package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/user"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	Role     string `db:"role"`
}

func (r userRow) toUser() (*user.User, error) {
	u := &user.User{
		ID:       r.ID,
		Username: r.Username,
		Password: r.Password,
		Role:     user.Role(r.Role),
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("decoding user %d: %w", r.ID, err)
	}

	return u, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.findOne(ctx, sq.Eq{"username": username})
}

func (s *Store) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return s.findOne(ctx, sq.Eq{"id": id})
}

func (s *Store) findOne(ctx context.Context, where sq.Eq) (*user.User, error) {
	query, args, err := s.db.Builder.
		Select("id", "username", "password", "role").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return row.toUser()
}

func (s *Store) Create(ctx context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	query, args, err := s.db.Builder.
		Insert("users").
		Columns("username", "password", "role").
		Values(u.Username, u.Password, string(u.Role)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("building user insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&u.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("creating user %q: %w", u.Username, user.ErrUsernameTaken)
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}
