package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lensflow/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

type model struct {
	session  *session.Session
	guard    *auth.Guard
	settings settings.Settings

	currentView View

	dashboardView     view.DashboardModel
	projectsView      view.ProjectsModel
	transactionsView  view.TransactionsModel
	notificationsView view.NotificationsModel
	assetsView        view.AssetsModel
}

type View int

const (
	ViewMenu          View = 0
	ViewDashboard     View = 1
	ViewProjects      View = 2
	ViewTransactions  View = 3
	ViewNotifications View = 4
	ViewAssets        View = 5
)

func initialModel(s *session.Session, guard *auth.Guard, st settings.Settings) model {
	return model{
		session:       s,
		guard:         guard,
		settings:      st,
		currentView:   ViewDashboard,
		dashboardView: view.NewDashboardModel(s, st),
	}
}

func (m model) Init() tea.Cmd {
	return m.dashboardView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.session, m.settings)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.session, m.guard)

				return m, m.projectsView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.session, m.guard)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewNotifications
				m.notificationsView = view.NewNotificationsModel(m.session, m.settings)

				return m, m.notificationsView.Init()
			case "5":
				m.currentView = ViewAssets
				m.assetsView = view.NewAssetsModel(m.session, m.guard)

				return m, m.assetsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	case ViewAssets:
		var newModel tea.Model
		newModel, cmd = m.assetsView.Update(msg)
		m.assetsView = newModel.(view.AssetsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.settings.StudioName + "\n\n" +
				"1. Dashboard\n" +
				"2. Projects\n" +
				"3. Transactions\n" +
				"4. Notifications\n" +
				"5. Equipment\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewProjects:
		return m.projectsView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewNotifications:
		return m.notificationsView.View()
	case ViewAssets:
		return m.assetsView.View()
	}

	return "Unknown View"
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st, err := settings.Load(settings.DefaultPath())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; keep log output to errors only.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	manager, err := session.NewManager(cfg, session.WithLogger(logger))
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer manager.Close()

	s, err := manager.Start(context.Background(), cfg.App.Account)
	if err != nil {
		slog.Error("failed to start session", "account", cfg.App.Account, "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(s, auth.NewGuard(cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash), st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
