package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensely/internal/expense"
	"github.com/MrJamesThe3rd/expensely/internal/user"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSubmit
	listStateEdit
)

// statusFilters is cycled with "s"; the empty filter lists everything.
var statusFilters = []string{"", string(expense.StatusPending), string(expense.StatusApproved), string(expense.StatusDenied)}

type ListModel struct {
	svc  *expense.Service
	user *user.User

	state   listState
	table   table.Model
	records []expense.Record
	form    *huh.Form
	editID  int64

	statusFilterIdx int

	loading bool
	err     error
	status  string
}

func NewListModel(svc *expense.Service, u *user.User) ListModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Amount", Width: 10},
		{Title: "Description", Width: 36},
		{Title: "Comment", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		svc:     svc,
		user:    u,
		table:   t,
		loading: true,
	}
}

func (m ListModel) Title() string { return "My Expenses" }
func (m ListModel) ShortHelp() string {
	if m.state != listStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: log out | n: new | e: edit | d: delete | s: status filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.records = msg.records
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = "Error: " + ErrorText(msg.err)
		}
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSubmit, listStateEdit:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			return m, m.loadCmd()
		case "n":
			return m.enterForm(listStateSubmit, nil)
		case "e":
			rec, ok := m.selected()
			if !ok {
				return m, nil
			}
			if rec.Approval.Status != expense.StatusPending {
				m.status = expense.ErrNotEditable.Msg
				return m, nil
			}
			return m.enterForm(listStateEdit, rec.Expense)
		case "d":
			rec, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.deleteCmd(rec.Expense.ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) selected() (expense.Record, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return expense.Record{}, false
	}

	return m.records[idx], true
}

func (m ListModel) enterForm(state listState, e *expense.Expense) (tea.Model, tea.Cmd) {
	amount, desc, date := "", "", ""
	m.editID = 0

	if e != nil {
		amount = strconv.FormatFloat(e.Amount, 'f', -1, 64)
		desc = e.Description
		date = e.Date
		m.editID = e.ID
	}

	dateTitle := "Date (YYYY-MM-DD, empty for today)"
	if state == listStateEdit {
		dateTitle = "Date (YYYY-MM-DD)"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&amount).
				Validate(func(s string) error {
					f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("%s", expense.ErrAmountNotNumber.Msg)
					}
					if f <= 0 {
						return fmt.Errorf("%s", expense.ErrAmountNotPositive.Msg)
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("%s", expense.ErrDescriptionMissing.Msg)
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title(dateTitle).
				Placeholder(time.Now().UTC().Format(time.DateOnly)).
				Value(&date).
				Validate(func(s string) error {
					if s == "" && state == listStateSubmit {
						return nil
					}
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("%s", expense.ErrInvalidDate.Msg)
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = state
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m, save
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", ErrorText(m.err)))
	}

	filterLabel := "All"
	if f := statusFilters[m.statusFilterIdx]; f != "" {
		filterLabel = f
	}

	header := fmt.Sprintf(
		"%s | Filter: [s] Status: %s | %d expenses",
		lipgloss.NewStyle().Bold(true).Render(m.user.Username),
		activeStyle(filterLabel),
		len(m.records),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Submit Expense"
		if m.state == listStateEdit {
			title = fmt.Sprintf("Edit Expense #%d", m.editID)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		rows = append(rows, table.Row{
			strconv.FormatInt(rec.Expense.ID, 10),
			rec.Expense.Date,
			FormatStatus(rec.Approval.Status),
			FormatAmount(rec.Expense.Amount),
			rec.Expense.Description,
			FormatOptional(rec.Approval.Comment),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	records []expense.Record
	err     error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := statusFilters[m.statusFilterIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.svc.List(ctx, m.user.ID, filter)
		return loadListMsg{records: records, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.form.GetString("amount")), 64)
	desc := m.form.GetString("description")
	date := strings.TrimSpace(m.form.GetString("date"))
	state, editID := m.state, m.editID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if state == listStateEdit {
			e, err := m.svc.Update(ctx, editID, m.user.ID, expense.UpdateParams{
				Amount: amount, Description: desc, Date: date,
			})
			if err != nil {
				return listSaveMsg{err: err}
			}
			return listSaveMsg{status: fmt.Sprintf("Updated expense #%d", e.ID)}
		}

		e, err := m.svc.Submit(ctx, m.user.ID, expense.SubmitParams{
			Amount: amount, Description: desc, Date: date,
		})
		if err != nil {
			return listSaveMsg{err: err}
		}
		return listSaveMsg{status: fmt.Sprintf("Submitted expense #%d", e.ID)}
	}
}

func (m ListModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deleted, err := m.svc.Delete(ctx, id, m.user.ID)
		if err != nil {
			return listSaveMsg{err: err}
		}
		if !deleted {
			return listSaveMsg{err: expense.ErrExpenseNotFound}
		}
		return listSaveMsg{status: fmt.Sprintf("Deleted expense #%d", id)}
	}
}
