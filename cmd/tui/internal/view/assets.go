package view

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lensflow/internal/amount"
	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

type assetsState int

const (
	assetsBrowse assetsState = iota
	assetsSearch
	assetsEdit
	assetsDelete
	assetsImport
)

type assetDraft struct {
	ID        string
	Name      string
	Category  string
	Quantity  string
	Brand     string
	Condition model.Condition
	Value     string
	Purchased string
	Notes     string
	Path      string
	Confirm   bool
	Admin     credential
}

func (d assetDraft) params() (inventory.AssetParams, error) {
	qty := 0
	if q := strings.TrimSpace(d.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return inventory.AssetParams{}, fmt.Errorf("quantity %q: %w", q, model.ErrValidation)
		}

		qty = n
	}

	purchased, err := model.ParseDay(strings.TrimSpace(d.Purchased))
	if err != nil {
		return inventory.AssetParams{}, fmt.Errorf("purchase date: %w", model.ErrValidation)
	}

	return inventory.AssetParams{
		Name:         d.Name,
		Category:     d.Category,
		Quantity:     qty,
		Brand:        d.Brand,
		Condition:    d.Condition,
		Value:        amount.Parse(d.Value),
		PurchaseDate: purchased,
		Notes:        d.Notes,
	}, nil
}

type AssetsModel struct {
	CommonModel
	session *session.Session
	guard   *auth.Guard

	state  assetsState
	table  table.Model
	search textinput.Model
	form   *huh.Form
	draft  *assetDraft
	all    []model.Asset
	assets []model.Asset

	categoryIdx  int
	conditionIdx int
	status       string
}

func NewAssetsModel(s *session.Session, guard *auth.Guard) AssetsModel {
	search := textinput.New()
	search.Placeholder = "ابحث في المعدات"
	search.Prompt = "/ "

	return AssetsModel{
		session: s,
		guard:   guard,
		search:  search,
		table: newTable([]table.Column{
			{Title: "Category", Width: 16},
			{Title: "Name", Width: 36},
			{Title: "Qty", Width: 4},
			{Title: "Brand", Width: 14},
			{Title: "Condition", Width: 12},
			{Title: "Value", Width: 14},
		}),
	}
}

func (m AssetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AssetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case assetsLoadedMsg:
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}

		m.all = msg.assets
		m.categoryIdx = min(m.categoryIdx, len(filter.AssetCategories(m.all)))
		m.refreshTable()

		return m, nil

	case savedMsg:
		m.state = assetsBrowse
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
	case assetsBrowse:
		return m.updateBrowse(msg)
	case assetsSearch:
		return m.updateSearch(msg)
	case assetsEdit, assetsDelete, assetsImport:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m AssetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "/":
			m.state = assetsSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(filter.AssetCategories(m.all)) + 1)
			m.refreshTable()

			return m, nil
		case "k":
			m.conditionIdx = (m.conditionIdx + 1) % (len(model.Conditions) + 1)
			m.refreshTable()

			return m, nil
		case "n":
			return m.openEdit(&assetDraft{Condition: model.ConditionGood})
		case "enter":
			a, ok := m.current()
			if !ok {
				return m, nil
			}

			return m.openEdit(&assetDraft{
				ID:        a.ID,
				Name:      a.Name,
				Category:  a.Category,
				Quantity:  strconv.Itoa(a.Quantity),
				Brand:     a.Brand,
				Condition: a.Condition,
				Value:     a.Value.String(),
				Purchased: FormatDate(a.PurchaseDate),
				Notes:     a.Notes,
			})
		case "x":
			return m.openDelete()
		case "i":
			return m.openImport()
		case "g":
			return m, m.seedCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AssetsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.search.Blur()
			m.state = assetsBrowse
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

func (m AssetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, done := updateForm(m.form, msg)
	if form == nil {
		m.state = assetsBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	m.form = form
	if !done {
		return m, cmd
	}

	switch m.state {
	case assetsEdit:
		return m, m.saveCmd(*m.draft)
	case assetsImport:
		return m, m.importCmd(m.draft.Path)
	case assetsDelete:
		if m.draft.Confirm {
			return m, m.deleteCmd(m.draft.ID, m.draft.Admin)
		}
	}

	m.state = assetsBrowse
	m.form = nil
	m.table.Focus()

	return m, nil
}

func (m AssetsModel) openEdit(d *assetDraft) (tea.Model, tea.Cmd) {
	m.draft = d

	options := make([]huh.Option[model.Condition], 0, len(model.Conditions))
	for _, c := range model.Conditions {
		options = append(options, huh.NewOption(c.Label(), c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&m.draft.Name).Validate(required("name")),
			huh.NewInput().Title("Category").Value(&m.draft.Category),
			huh.NewInput().Title("Quantity").Placeholder("1").Value(&m.draft.Quantity),
			huh.NewInput().Title("Brand").Value(&m.draft.Brand),
			huh.NewSelect[model.Condition]().Title("Condition").Options(options...).Value(&m.draft.Condition),
			huh.NewInput().Title("Value").Placeholder("0").Value(&m.draft.Value),
			huh.NewInput().Title("Purchase date").Placeholder("YYYY-MM-DD").Value(&m.draft.Purchased),
			huh.NewText().Title("Notes").Value(&m.draft.Notes),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = assetsEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m AssetsModel) openDelete() (tea.Model, tea.Cmd) {
	a, ok := m.current()
	if !ok {
		return m, nil
	}

	m.draft = &assetDraft{ID: a.ID}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", a.Name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.draft.Confirm),
		),
		credentialGroup(&m.draft.Admin, &m.draft.Confirm),
	).WithWidth(48).WithShowHelp(false)

	m.state = assetsDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m AssetsModel) openImport() (tea.Model, tea.Cmd) {
	m.draft = &assetDraft{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gear sheet").
				Description("CSV exported from the My Gears sheet").
				Placeholder("/path/to/gears.csv").
				Value(&m.draft.Path).
				Validate(func(s string) error {
					if _, err := os.Stat(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("file not found")
					}

					return nil
				}),
		),
	).WithWidth(48).WithShowHelp(false)

	m.state = assetsImport
	m.table.Blur()

	return m, m.form.Init()
}

func (m AssetsModel) current() (model.Asset, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.assets) {
		return model.Asset{}, false
	}

	return m.assets[idx], true
}

func (m AssetsModel) query() filter.AssetQuery {
	q := filter.AssetQuery{Search: m.search.Value()}

	if categories := filter.AssetCategories(m.all); m.categoryIdx > 0 && m.categoryIdx <= len(categories) {
		q.Category = categories[m.categoryIdx-1]
	}

	if m.conditionIdx > 0 {
		q.Condition = model.Conditions[m.conditionIdx-1]
	}

	return q
}

func (m *AssetsModel) refreshTable() {
	m.assets = filter.Assets(m.all, m.query())

	rows := make([]table.Row, 0, len(m.assets))
	for _, a := range m.assets {
		rows = append(rows, table.Row{
			a.Category,
			a.Name,
			strconv.Itoa(a.Quantity),
			a.Brand,
			a.Condition.Label(),
			FormatAmount(a.Value),
		})
	}

	m.table.SetRows(rows)
}

func (m AssetsModel) View() string {
	q := m.query()
	totals := filter.Totals(m.assets)

	category, condition := "All", "All"
	if q.Category != "" {
		category = q.Category
	}

	if q.Condition != "" {
		condition = q.Condition.Label()
	}

	header := fmt.Sprintf("Equipment: %d items · %s | [c] Category: %s | [k] Condition: %s",
		totals.Count, FormatAmount(totals.Value), activeStyle(category), activeStyle(condition))
	help := faintStyle.Render("n: new | Enter: edit | x: delete | i: import sheet | g: seed list | /: search | esc: back")

	parts := []string{header, help, ""}
	if m.state == assetsSearch || m.search.Value() != "" {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, tableFrame(m.table))
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.form != nil {
		title := map[assetsState]string{
			assetsEdit:   "Equipment",
			assetsDelete: "Delete Equipment",
			assetsImport: "Import Gear Sheet",
		}[m.state]

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, renderPanel(title, m.form))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type assetsLoadedMsg struct {
	assets []model.Asset
	err    error
}

func (m AssetsModel) loadCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		assets, err := s.Inventory.List(ctx)

		return assetsLoadedMsg{assets: assets, err: err}
	}
}

func (m AssetsModel) saveCmd(d assetDraft) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		params, err := d.params()
		if err != nil {
			return savedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if d.ID == "" {
			if _, err := s.Inventory.Create(ctx, params); err != nil {
				return savedMsg{err: err}
			}

			return savedMsg{status: "Added " + params.Name}
		}

		if err := s.Inventory.Update(ctx, d.ID, params); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Updated " + params.Name}
	}
}

func (m AssetsModel) deleteCmd(id string, admin credential) tea.Cmd {
	s := m.session

	return confirmed(m.guard, admin, func() savedMsg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Inventory.Delete(ctx, id); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: "Equipment deleted"}
	})
}

func (m AssetsModel) importCmd(path string) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		f, err := os.Open(strings.TrimSpace(path))
		if err != nil {
			return savedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		n, err := s.ImportGears(ctx, f)
		if err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: fmt.Sprintf("Imported %d new items", n)}
	}
}

func (m AssetsModel) seedCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		n, err := s.SeedGears(ctx)
		if err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{status: fmt.Sprintf("Added %d items from the built-in list", n)}
	}
}
