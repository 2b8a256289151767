package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensely/internal/config"
	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/user"
	userStore "github.com/MrJamesThe3rd/expensely/internal/user/store"
)

const (
	sampleUsername = "employee1"
	samplePassword = "password123"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// prompt asks for whatever credentials were not given on the command line.
// Replaced in tests.
var prompt = func(username, password *string) error {
	var fields []huh.Field

	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("username is required")
				}
				return nil
			}))
	}

	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("password is required")
				}
				return nil
			}))
	}

	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("failed to add user", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		username = fs.String("user", "", "username of the new employee")
		password = fs.String("password", "", "password of the new employee")
		sample   = fs.Bool("sample", false, "create the sample employee1/password123 account if missing")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	users := user.NewService(userStore.New(db))

	if *sample {
		u, created, err := users.EnsureUser(ctx, sampleUsername, samplePassword)
		if err != nil {
			return err
		}

		if !created {
			fmt.Fprintln(stdout, infoStyle.Render(fmt.Sprintf("User %q already exists (id %d)", u.Username, u.ID)))
			return nil
		}

		fmt.Fprintln(stdout, okStyle.Render(fmt.Sprintf("Created employee %q (id %d)", u.Username, u.ID)))

		return nil
	}

	if err := prompt(username, password); err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	u, err := users.Register(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, okStyle.Render(fmt.Sprintf("Created employee %q (id %d)", u.Username, u.ID)))

	return nil
}
