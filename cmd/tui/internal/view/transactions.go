package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lensflow/internal/amount"
	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/ledger"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

type txState int

const (
	txStateList txState = iota
	txStateEditing
	txStateDeleting
)

var txTypeFilters = []model.TransactionType{"", model.TypeIncome, model.TypeExpense}

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx      model.Transaction
	project string
}

func (i txItem) Title() string {
	kind := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Type.Label()))

	sign := "+"
	if i.tx.Type == model.TypeExpense {
		sign = "-"
	}

	return fmt.Sprintf("%s  %s%s  %s  %s %s",
		FormatDate(i.tx.Date), sign, FormatAmount(i.tx.Amount), kind,
		filter.CategoryIcon(i.tx.Category).Glyph(), i.tx.Category)
}

func (i txItem) Description() string {
	desc := i.tx.Description
	if i.project != "" {
		desc = strings.TrimSpace(desc + "  ↳ " + i.project)
	}

	return desc
}

func (i txItem) FilterValue() string {
	return strings.Join([]string{i.tx.Description, i.tx.Category, i.project, i.tx.Amount.String()}, " ")
}

// txDraft backs the add and edit form.
type txDraft struct {
	ID          string
	Type        model.TransactionType
	Amount      string
	Category    string
	Description string
	ProjectID   string
	Confirm     bool
	Admin       credential
}

type TransactionsModel struct {
	CommonModel
	session *session.Session
	guard   *auth.Guard

	state    txState
	list     list.Model
	form     *huh.Form
	draft    *txDraft
	txs      []model.Transaction
	projects []model.Project

	typeFilterIdx int
	status        string
}

func NewTransactionsModel(s *session.Session, guard *auth.Guard) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		session: s,
		guard:   guard,
		list:    l,
	}
}

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateList:
		return "Esc: back | n: new | Enter: edit | x: delete | t: type | /: filter"
	case txStateEditing, txStateDeleting:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadedMsg:
		m.txs = msg.txs
		m.projects = msg.projects

		return m, m.refreshListItems()

	case savedMsg:
		m.state = txStateList
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = errorText(msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateEditing, txStateDeleting:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}

			return m, Back
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(txTypeFilters)
			return m, m.refreshListItems()
		case "n":
			return m.startEditing(&txDraft{Type: model.TypeExpense})
		case "enter":
			selected, ok := m.list.SelectedItem().(txItem)
			if !ok {
				return m, nil
			}

			return m.startEditing(&txDraft{
				ID:          selected.tx.ID,
				Type:        selected.tx.Type,
				Amount:      selected.tx.Amount.String(),
				Category:    selected.tx.Category,
				Description: selected.tx.Description,
				ProjectID:   selected.tx.ProjectID,
			})
		case "x":
			return m.startDeleting()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing(d *txDraft) (tea.Model, tea.Cmd) {
	m.draft = d

	projectOptions := []huh.Option[string]{huh.NewOption("بدون مشروع", "")}
	for _, p := range m.projects {
		projectOptions = append(projectOptions, huh.NewOption(p.Title, p.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.TransactionType]().
				Title("Type").
				Options(
					huh.NewOption(model.TypeIncome.Label(), model.TypeIncome),
					huh.NewOption(model.TypeExpense.Label(), model.TypeExpense),
				).
				Value(&m.draft.Type),
			huh.NewInput().
				Title("Amount").
				Value(&m.draft.Amount).
				Validate(func(s string) error {
					_, err := amount.Required("amount", s)
					return err
				}),
			huh.NewInput().Title("Category").Placeholder(ledger.DefaultCategory).Value(&m.draft.Category),
			huh.NewInput().Title("Description").Value(&m.draft.Description),
			huh.NewSelect[string]().Title("Project").Options(projectOptions...).Value(&m.draft.ProjectID),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) startDeleting() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.draft = &txDraft{ID: selected.tx.ID}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this transaction?").
				Description(selected.Title()).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.draft.Confirm),
		),
		credentialGroup(&m.draft.Admin, &m.draft.Confirm),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateDeleting

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, done := updateForm(m.form, msg)
	if form == nil {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	m.form = form
	if !done {
		return m, cmd
	}

	if m.state == txStateDeleting {
		if !m.draft.Confirm {
			m.state = txStateList
			m.form = nil

			return m, nil
		}

		return m, m.deleteCmd(m.draft.ID, m.draft.Admin)
	}

	return m, m.saveCmd(*m.draft)
}

func (m TransactionsModel) View() string {
	filterLabel := "All"
	if t := txTypeFilters[m.typeFilterIdx]; t != "" {
		filterLabel = t.Label()
	}

	statusLine := fmt.Sprintf("[t] Type: %s | %s\n", activeStyle(filterLabel), faintStyle.Render(m.ShortHelp()))
	if m.status != "" {
		statusLine = faintStyle.Render(m.status) + "\n" + statusLine
	}

	content := m.list.View()

	if m.form != nil {
		title := "New Transaction"
		if m.draft.ID != "" {
			title = "Edit Transaction"
		}

		if m.state == txStateDeleting {
			title = "Delete Transaction"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, renderPanel(title, m.form))
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + content)
}

func (m *TransactionsModel) refreshListItems() tea.Cmd {
	txs := filter.Transactions(m.txs, m.projects, filter.TransactionQuery{Type: txTypeFilters[m.typeFilterIdx]})

	titles := make(map[string]string, len(m.projects))
	for _, p := range m.projects {
		titles[p.ID] = p.Title
	}

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{tx: tx, project: titles[tx.ProjectID]}
	}

	return m.list.SetItems(items)
}

// Messages

type txLoadedMsg struct {
	txs      []model.Transaction
	projects []model.Project
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		s.Lock()
		defer s.Unlock()

		return txLoadedMsg{txs: s.Ledger.Transactions(), projects: s.Ledger.Projects()}
	}
}

func (m TransactionsModel) saveCmd(d txDraft) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		value, err := amount.Required("amount", d.Amount)
		if err != nil {
			return savedMsg{err: err}
		}

		params := ledger.TransactionParams{
			Type:        d.Type,
			Amount:      value,
			Category:    d.Category,
			Description: d.Description,
			ProjectID:   d.ProjectID,
		}

		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		if d.ID == "" {
			if _, err := s.Ledger.AddTransaction(ctx, params); err != nil {
				return savedMsg{err: err}
			}

			return savedMsg{status: "Transaction added"}
		}

		if _, err := s.Ledger.UpdateTransaction(ctx, d.ID, params); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Transaction updated"}
	}
}

func (m TransactionsModel) deleteCmd(id string, admin credential) tea.Cmd {
	s := m.session

	return confirmed(m.guard, admin, func() savedMsg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		if err := s.Ledger.DeleteTransaction(ctx, id); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Transaction deleted"}
	})
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s", faintStyle.Render(i.Description()))
}
