package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensely/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/expensely/internal/config"
	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/expensely/internal/expense/store"
	"github.com/MrJamesThe3rd/expensely/internal/user"
	userStore "github.com/MrJamesThe3rd/expensely/internal/user/store"
)

type model struct {
	userService    *user.Service
	expenseService *expense.Service

	currentView View

	loginView view.LoginModel
	listView  view.ListModel
}

type View int

const (
	ViewLogin View = 0
	ViewList  View = 1
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	userSvc := user.NewService(userStore.New(db))
	expSvc := expense.NewService(expenseStore.NewExpenseStore(db), expenseStore.NewApprovalStore(db))

	return model{
		userService:    userSvc,
		expenseService: expSvc,
		currentView:    ViewLogin,
		loginView:      view.NewLoginModel(userSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.LoggedInMsg:
		m.currentView = ViewList
		m.listView = view.NewListModel(m.expenseService, msg.User)

		return m, m.listView.Init()
	case view.BackMsg:
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.userService)

		return m, m.loginView.Init()
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewList:
		return m.listView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
