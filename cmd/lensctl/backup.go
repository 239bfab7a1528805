package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/backup"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

var flagBackupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, import and archive backup documents",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup document",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a backup document, upserting by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

var backupArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload a backup to the object store",
	Args:  cobra.NoArgs,
	RunE:  runBackupArchive,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [key]",
	Short: "Restore an archived backup (newest when no key is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupRestore,
}

func init() {
	backupExportCmd.Flags().StringVarP(&flagBackupOut, "out", "o", "", "Output file (defaults to LensFlow_Backup_<date>.json)")

	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupArchiveCmd, backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupExport(cmd *cobra.Command, _ []string) error {
	out := flagBackupOut
	if out == "" {
		out = backup.FileName(time.Now())
	}

	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		if err := s.Backup.Export(cmd.Context(), f); err != nil {
			return err
		}

		progress("backup written to %s", out)

		return nil
	})
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		sum, err := s.ImportBackup(cmd.Context(), f)
		printSummary(sum)

		return err
	})
}

func runBackupArchive(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		key, err := s.ArchiveBackup(cmd.Context())
		if err != nil {
			return err
		}

		progress("backup uploaded to %s", key)

		return nil
	})
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	}

	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		sum, err := s.RestoreArchive(cmd.Context(), key)
		printSummary(sum)

		return err
	})
}

func printSummary(sum backup.Summary) {
	progress("restored %d projects, %d transactions, %d notifications, %d assets",
		sum.Projects, sum.Transactions, sum.Notifications, sum.Assets)
}
