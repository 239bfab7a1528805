package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

var (
	flagRole     string
	flagUsername string
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every project, transaction, notification and asset of the account",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for the account",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
	Args:  cobra.NoArgs,
	RunE:  runHashPassword,
}

func init() {
	clearCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "Admin username")
	tokenCmd.Flags().StringVar(&flagRole, "role", string(auth.RoleStaff), "Role carried by the token (admin|staff)")

	rootCmd.AddCommand(clearCmd, tokenCmd, hashPasswordCmd)
}

func promptPassword(title string) (string, error) {
	var pw string

	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&pw).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return pw, nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(cfg *config.Config, s *session.Session) error {
		username := flagUsername
		if username == "" {
			username = cfg.Auth.AdminUser
		}

		pw, err := promptPassword("Admin password for " + username)
		if err != nil {
			return err
		}

		if err := auth.NewGuard(cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash).Check(username, pw); err != nil {
			return err
		}

		var confirmed bool

		err = huh.NewConfirm().
			Title(fmt.Sprintf("Delete all data of account %s?", s.Account)).
			Description("This removes projects, transactions, notifications and assets.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}

		if !confirmed {
			progress("cancelled")
			return nil
		}

		if err := s.ClearAllData(cmd.Context()); err != nil {
			return err
		}

		progress("account %s cleared", s.Account)

		return nil
	})
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	account := flagAccount
	if account == "" {
		account = cfg.App.Account
	}

	raw, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(auth.Identity{
		Account: account,
		Role:    auth.Role(flagRole),
	})
	if err != nil {
		return err
	}

	fmt.Println(raw)

	return nil
}

func runHashPassword(_ *cobra.Command, _ []string) error {
	pw, err := promptPassword("New admin password")
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}

	fmt.Println(hash)

	return nil
}
