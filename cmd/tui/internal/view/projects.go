package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
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

type projectsState int

const (
	projectsBrowse projectsState = iota
	projectsSearch
	projectsCreate
	projectsStatus
	projectsDelete
)

// projectDraft backs the create form. It lives behind a pointer so the form
// keeps writing to the same fields while the model is copied around.
type projectDraft struct {
	Title       string
	Client      string
	Type        model.ServiceType
	Budget      string
	InitialPaid string
	Deadline    string
	Status      model.Status
	Confirm     bool
	Admin       credential
}

type ProjectsModel struct {
	CommonModel
	session *session.Session
	guard   *auth.Guard

	state    projectsState
	table    table.Model
	search   textinput.Model
	form     *huh.Form
	draft    *projectDraft
	all      []model.Project
	projects []model.Project

	statusFilterIdx int
	status          string
}

func NewProjectsModel(s *session.Session, guard *auth.Guard) ProjectsModel {
	search := textinput.New()
	search.Placeholder = "ابحث بالعنوان أو العميل"
	search.Prompt = "/ "

	return ProjectsModel{
		session: s,
		guard:   guard,
		search:  search,
		table: newTable([]table.Column{
			{Title: "Deadline", Width: 12},
			{Title: "Status", Width: 12},
			{Title: "Title", Width: 28},
			{Title: "Client", Width: 18},
			{Title: "Budget", Width: 14},
			{Title: "Remaining", Width: 14},
		}),
	}
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.all = msg.projects
		m.refreshTable()

		return m, nil

	case savedMsg:
		m.state = projectsBrowse
		m.form = nil
		m.table.Focus()
		m.status = msg.status

		if msg.err != nil {
			m.status = errorText(msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case projectsBrowse:
		return m.updateBrowse(msg)
	case projectsSearch:
		return m.updateSearch(msg)
	case projectsCreate, projectsStatus, projectsDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ProjectsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "/":
			m.state = projectsSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % (len(model.Statuses) + 1)
			m.refreshTable()

			return m, nil
		case "n":
			return m.openCreate()
		case "u":
			return m.openStatus()
		case "d":
			return m.openDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProjectsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.search.Blur()
			m.state = projectsBrowse
			m.table.Focus()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshTable()

	return m, cmd
}

func (m ProjectsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, done := updateForm(m.form, msg)
	if form == nil {
		m.state = projectsBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	m.form = form
	if !done {
		return m, cmd
	}

	switch m.state {
	case projectsCreate:
		return m, m.createCmd(*m.draft)
	case projectsStatus:
		return m, m.statusCmd(m.selected().ID, m.draft.Status)
	case projectsDelete:
		if !m.draft.Confirm {
			m.state = projectsBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.selected().ID, m.draft.Admin)
	}

	return m, nil
}

func (m ProjectsModel) openCreate() (tea.Model, tea.Cmd) {
	m.draft = &projectDraft{Type: model.ServicePhotography}

	typeOptions := []huh.Option[model.ServiceType]{
		huh.NewOption(model.ServicePhotography.Label(), model.ServicePhotography),
		huh.NewOption(model.ServiceEditing.Label(), model.ServiceEditing),
		huh.NewOption(model.ServiceFull.Label(), model.ServiceFull),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&m.draft.Title).Validate(required("title")),
			huh.NewInput().Title("Client").Value(&m.draft.Client),
			huh.NewSelect[model.ServiceType]().Title("Service").Options(typeOptions...).Value(&m.draft.Type),
			huh.NewInput().Title("Budget").Placeholder("0").Value(&m.draft.Budget),
			huh.NewInput().Title("Initial payment").Placeholder("0").Value(&m.draft.InitialPaid),
			huh.NewInput().Title("Deadline").Placeholder("YYYY-MM-DD").Value(&m.draft.Deadline).Validate(validDay),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = projectsCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) openStatus() (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}

	m.draft = &projectDraft{Status: p.Status}

	options := make([]huh.Option[model.Status], 0, len(model.Statuses))
	for _, s := range model.Statuses {
		options = append(options, huh.NewOption(s.Label(), s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Status]().Title("Status of " + p.Title).Options(options...).Value(&m.draft.Status),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = projectsStatus
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) openDelete() (tea.Model, tea.Cmd) {
	p, ok := m.current()
	if !ok {
		return m, nil
	}

	m.draft = &projectDraft{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", p.Title)).
				Description("Linked transactions and alerts are removed too.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.draft.Confirm),
		),
		credentialGroup(&m.draft.Admin, &m.draft.Confirm),
	).WithWidth(48).WithShowHelp(false)

	m.state = projectsDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProjectsModel) current() (model.Project, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.projects) {
		return model.Project{}, false
	}

	return m.projects[idx], true
}

func (m ProjectsModel) selected() model.Project {
	p, _ := m.current()
	return p
}

func (m ProjectsModel) statusFilter() model.Status {
	if m.statusFilterIdx == 0 {
		return ""
	}

	return model.Statuses[m.statusFilterIdx-1]
}

func (m *ProjectsModel) refreshTable() {
	m.projects = filter.Projects(m.all, filter.ProjectQuery{
		Search: m.search.Value(),
		Status: m.statusFilter(),
	})

	rows := make([]table.Row, 0, len(m.projects))
	for _, p := range m.projects {
		rows = append(rows, table.Row{
			FormatDate(p.Deadline),
			p.Status.Label(),
			p.Title,
			p.Client,
			FormatAmount(p.Budget),
			FormatAmount(p.Remaining()),
		})
	}

	m.table.SetRows(rows)
}

func (m ProjectsModel) View() string {
	statusLabel := "All"
	if s := m.statusFilter(); s != "" {
		statusLabel = s.Label()
	}

	header := fmt.Sprintf("Projects (%d) | [s] Status: %s | [/] Search | n: new | u: status | d: delete | esc: back",
		len(m.projects), activeStyle(statusLabel))

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}
	if m.state == projectsSearch || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, tableFrame(m.table))
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.form != nil {
		title := map[projectsState]string{
			projectsCreate: "New Project",
			projectsStatus: "Change Status",
			projectsDelete: "Delete Project",
		}[m.state]

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, renderPanel(title, m.form))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type projectsLoadedMsg struct {
	projects []model.Project
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		s.Lock()
		defer s.Unlock()

		return projectsLoadedMsg{projects: s.Ledger.Projects()}
	}
}

func (m ProjectsModel) createCmd(d projectDraft) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		deadline, err := model.ParseDay(strings.TrimSpace(d.Deadline))
		if err != nil {
			return savedMsg{err: fmt.Errorf("deadline: %w", model.ErrValidation)}
		}

		params := ledger.ProjectParams{
			Title:       d.Title,
			Client:      d.Client,
			Type:        d.Type,
			Budget:      amount.Parse(d.Budget),
			InitialPaid: amount.Parse(d.InitialPaid),
			Deadline:    deadline,
		}

		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		p, err := s.Ledger.CreateProject(ctx, params)
		if err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Created " + p.Title}
	}
}

func (m ProjectsModel) statusCmd(id string, status model.Status) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		p, err := s.Ledger.SetProjectStatus(ctx, id, status)
		if err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: p.Title + " is now " + p.Status.Label()}
	}
}

func (m ProjectsModel) deleteCmd(id string, admin credential) tea.Cmd {
	s := m.session

	return confirmed(m.guard, admin, func() savedMsg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		if err := s.Ledger.DeleteProject(ctx, id); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Project deleted"}
	})
}
