package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensely/internal/user"
)

// LoggedInMsg is sent once the credentials check out.
type LoggedInMsg struct {
	User *user.User
}

type loginFailedMsg struct {
	err error
}

type LoginModel struct {
	users *user.Service

	form       *huh.Form
	status     string
	submitting bool
}

func NewLoginModel(users *user.Service) LoginModel {
	return LoginModel{users: users, form: buildLoginForm()}
}

func (m LoginModel) Title() string     { return "Employee Login" }
func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username"),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if failed, ok := msg.(loginFailedMsg); ok {
		m.status = ErrorText(failed.err)
		m.form = buildLoginForm()
		m.submitting = false

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.submitting {
		return m, cmd
	}

	m.submitting = true

	return m, m.authenticateCmd()
}

func (m LoginModel) authenticateCmd() tea.Cmd {
	username := m.form.GetString("username")
	password := m.form.GetString("password")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := m.users.Authenticate(ctx, username, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}

		return LoggedInMsg{User: u}
	}
}

func (m LoginModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.Title())

	content := fmt.Sprintf("%s\n\n%s", header, m.form.View())
	if m.status != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}
