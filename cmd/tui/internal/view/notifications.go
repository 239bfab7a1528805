package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

type NotificationsModel struct {
	CommonModel
	session  *session.Session
	settings settings.Settings

	table         table.Model
	notifications []model.Notification
	status        string
}

func NewNotificationsModel(s *session.Session, st settings.Settings) NotificationsModel {
	return NotificationsModel{
		session:  s,
		settings: st,
		table: newTable([]table.Column{
			{Title: "", Width: 2},
			{Title: "Date", Width: 12},
			{Title: "Title", Width: 30},
			{Title: "Message", Width: 50},
		}),
	}
}

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		m.notifications = msg.notifications
		m.refreshTable()

		return m, nil

	case savedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorText(msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.notifications) || m.notifications[idx].IsRead {
				return m, nil
			}

			return m, m.markReadCmd(m.notifications[idx].ID)
		case "r":
			return m, m.scanCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *NotificationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.notifications))
	for _, n := range m.notifications {
		marker := "●"
		if n.IsRead {
			marker = " "
		}

		rows = append(rows, table.Row{marker, FormatDate(n.Date), n.Title, n.Message})
	}

	m.table.SetRows(rows)
}

func (m NotificationsModel) View() string {
	unread := 0
	for _, n := range m.notifications {
		if !n.IsRead {
			unread++
		}
	}

	header := fmt.Sprintf("Notifications | unread: %s | Enter: mark read | r: rescan | esc: back",
		activeStyle(fmt.Sprint(unread)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableFrame(m.table),
	)

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type notificationsLoadedMsg struct {
	notifications []model.Notification
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		s.Lock()
		defer s.Unlock()

		return notificationsLoadedMsg{notifications: s.Ledger.Notifications()}
	}
}

func (m NotificationsModel) markReadCmd(id string) tea.Cmd {
	s := m.session

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		if err := s.Ledger.MarkNotificationRead(ctx, id); err != nil {
			return savedMsg{err: err}
		}

		return savedMsg{}
	}
}

func (m NotificationsModel) scanCmd() tea.Cmd {
	s, st := m.session, m.settings

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		if err := s.Refresh(ctx); err != nil {
			return savedMsg{err: err}
		}

		res, err := s.Scan(ctx, st)
		if err != nil {
			return savedMsg{err: err}
		}

		if !st.NotificationsEnabled {
			return savedMsg{status: "Notifications are disabled in settings"}
		}

		return savedMsg{status: fmt.Sprintf("Scan done: %d new, %d overdue", res.Emitted, res.Transitioned)}
	}
}
