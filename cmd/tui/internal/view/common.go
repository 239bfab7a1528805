package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	faintStyle  = lipgloss.NewStyle().Faint(true)
	accentColor = lipgloss.Color("63")
	panelStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func newTable(columns []table.Column) table.Model {
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

	return t
}

// updateForm forwards msg to an open form. done reports that the form was
// submitted; a form aborted with esc comes back nil.
func updateForm(form *huh.Form, msg tea.Msg) (_ *huh.Form, cmd tea.Cmd, done bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return nil, nil, false
	}

	f, cmd := form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		form = hf
	}

	switch form.State {
	case huh.StateCompleted:
		return form, cmd, true
	case huh.StateAborted:
		return nil, nil, false
	}

	return form, cmd, false
}

func renderPanel(title string, form *huh.Form) string {
	return panelStyle.Width(52).Render(title + "\n\n" + form.View())
}

func tableFrame(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}

		return nil
	}
}

func validDay(s string) error {
	if t, err := model.ParseDay(strings.TrimSpace(s)); err != nil || t.IsZero() {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

// savedMsg reports the outcome of a write started from a view.
type savedMsg struct {
	status string
	err    error
}

// credential is the admin login typed into a delete confirmation.
type credential struct {
	Username string
	Password string
}

// credentialGroup asks for the admin login once *confirm is set.
func credentialGroup(c *credential, confirm *bool) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Admin username").Value(&c.Username),
		huh.NewInput().Title("Admin password").EchoMode(huh.EchoModePassword).Value(&c.Password),
	).WithHideFunc(func() bool { return !*confirm })
}

// confirmed runs del only when c matches the admin credential.
func confirmed(guard *auth.Guard, c credential, del func() savedMsg) tea.Cmd {
	return func() tea.Msg {
		if err := guard.Check(c.Username, c.Password); err != nil {
			return savedMsg{err: err}
		}

		return del()
	}
}
