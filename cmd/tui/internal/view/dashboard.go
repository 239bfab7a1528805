package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/lensflow/internal/deadline"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

const dashboardAlerts = 5

// DashboardModel shows the studio totals. Loading it runs the deadline scan
// when notifications are enabled, the same way a full load does elsewhere.
type DashboardModel struct {
	CommonModel
	session  *session.Session
	settings settings.Settings

	loaded bool
	stats  model.Stats
	totals filter.EquipmentTotals
	alerts []model.Notification
	scan   deadline.Result
	err    error
}

func NewDashboardModel(s *session.Session, st settings.Settings) DashboardModel {
	return DashboardModel{session: s, settings: st}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loaded = true
		m.err = msg.err
		m.stats = msg.stats
		m.totals = msg.totals
		m.alerts = msg.alerts
		m.scan = msg.scan

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loaded = false
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading studio...")
	}

	card := lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.settings.ThemeColor))

	money := lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render("Income\n"+FormatAmount(m.stats.TotalIncome)),
		card.Render("Expenses\n"+FormatAmount(m.stats.TotalExpenses)),
		card.Render("Net profit\n"+FormatAmount(m.stats.NetProfit)),
	)

	projects := lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render(fmt.Sprintf("Active\n%d", m.stats.ActiveCount)),
		card.Render(fmt.Sprintf("Upcoming\n%d", m.stats.PendingCount)),
		card.Render(fmt.Sprintf("Delivered\n%d", m.stats.CompletedCount)),
		card.Render(fmt.Sprintf("Equipment\n%d items · %s", m.totals.Count, FormatAmount(m.totals.Value))),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Unread alerts: %s\n", activeStyle(fmt.Sprint(m.stats.UnreadCount)))

	for _, n := range m.alerts {
		fmt.Fprintf(&b, "  ● %s  %s\n", n.Title, faintStyle.Render(n.Message))
	}

	title := lipgloss.NewStyle().Bold(true).Render(m.settings.StudioName) +
		faintStyle.Render("  "+m.settings.DisplayName)

	parts := []string{title, "", money, projects, "", b.String()}

	if m.err != nil {
		parts = append(parts, errorText(m.err))
	} else if m.scan.Failures > 0 {
		parts = append(parts, faintStyle.Render(fmt.Sprintf("Deadline scan skipped %d writes, see log", m.scan.Failures)))
	}

	parts = append(parts, faintStyle.Render("r: refresh | esc: back"))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Messages

type dashboardLoadedMsg struct {
	stats  model.Stats
	totals filter.EquipmentTotals
	alerts []model.Notification
	scan   deadline.Result
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	s, st := m.session, m.settings

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s.Lock()
		defer s.Unlock()

		var msg dashboardLoadedMsg

		if msg.err = s.Refresh(ctx); msg.err == nil {
			msg.scan, msg.err = s.Scan(ctx, st)
		}

		msg.stats = s.Ledger.Stats()

		for _, n := range s.Ledger.Notifications() {
			if !n.IsRead && len(msg.alerts) < dashboardAlerts {
				msg.alerts = append(msg.alerts, n)
			}
		}

		assets, err := s.Inventory.List(ctx)
		if err != nil && msg.err == nil {
			msg.err = err
		}

		msg.totals = filter.Totals(assets)

		return msg
	}
}
