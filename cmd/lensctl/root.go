package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

var (
	flagAccount  string
	flagSettings string
	flagQuiet    bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366f1"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C"))
)

var rootCmd = &cobra.Command{
	Use:           "lensctl",
	Short:         "LensFlow maintenance CLI",
	Long:          "Scan deadlines, back up, import gear sheets and manage credentials of a LensFlow studio.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagAccount, "account", "a", "", "Account id (defaults to ACCOUNT_ID)")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", settings.DefaultPath(), "Settings document")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	return config.Load()
}

// withSession opens the configured store for the selected account and runs fn.
func withSession(ctx context.Context, fn func(*config.Config, *session.Session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	account := flagAccount
	if account == "" {
		account = cfg.App.Account
	}

	m, err := session.NewManager(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	s, err := m.Start(ctx, account)
	if err != nil {
		return err
	}

	return fn(cfg, s)
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}

	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
