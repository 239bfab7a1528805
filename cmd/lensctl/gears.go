package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

var gearsCmd = &cobra.Command{
	Use:   "gears",
	Short: "Import the equipment list",
}

var gearsImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Add the assets of a gear sheet export not already listed",
	Args:  cobra.ExactArgs(1),
	RunE:  runGearsImport,
}

var gearsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the built-in My Gears list",
	Args:  cobra.NoArgs,
	RunE:  runGearsSeed,
}

func init() {
	gearsCmd.AddCommand(gearsImportCmd, gearsSeedCmd)
	rootCmd.AddCommand(gearsCmd)
}

func runGearsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		n, err := s.ImportGears(cmd.Context(), f)
		progress("%d assets added", n)

		return err
	})
}

func runGearsSeed(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		n, err := s.SeedGears(cmd.Context())
		progress("%d assets added", n)

		return err
	})
}
