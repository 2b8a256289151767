package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/user"
	userStore "github.com/MrJamesThe3rd/expensely/internal/user/store"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "adduser.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", path)
	t.Setenv("TEST_MODE", "false")

	return path
}

func lookup(t *testing.T, path, username string) *user.User {
	t.Helper()

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	u, err := userStore.New(db).FindByUsername(context.Background(), username)
	require.NoError(t, err)

	return u
}

func TestRun_Flags(t *testing.T) {
	path := setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-user", "alice", "-password", "s3cret"}, &out))
	assert.Contains(t, out.String(), `Created employee "alice"`)

	u := lookup(t, path, "alice")
	assert.Equal(t, user.RoleEmployee, u.Role)
	assert.NotEqual(t, "s3cret", u.Password)

	err := run(context.Background(), []string{"-user", "alice", "-password", "other"}, &out)
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestRun_PromptsForMissingValues(t *testing.T) {
	path := setupEnv(t)

	orig := prompt
	t.Cleanup(func() { prompt = orig })

	var asked bool
	prompt = func(username, password *string) error {
		asked = true
		assert.Equal(t, "bob", *username)
		assert.Empty(t, *password)
		*password = "typed"

		return nil
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-user", "bob"}, &out))
	assert.True(t, asked)

	lookup(t, path, "bob")
}

func TestRun_Sample(t *testing.T) {
	path := setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-sample"}, &out))
	assert.Contains(t, out.String(), `Created employee "employee1"`)

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"-sample"}, &out))
	assert.Contains(t, out.String(), "already exists")

	lookup(t, path, "employee1")
}

func TestRun_BadFlag(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"-nope"}, &out))
}
