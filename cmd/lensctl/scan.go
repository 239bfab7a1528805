package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Mark late projects overdue and emit deadline alerts",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	st, err := settings.Load(flagSettings)
	if err != nil {
		return err
	}

	if !st.NotificationsEnabled {
		progress("notifications are disabled in %s", flagSettings)
	}

	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		res, err := s.Scan(cmd.Context(), st)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("DEADLINE SCAN"))
		fmt.Printf("  projects moved to overdue  %d\n", res.Transitioned)
		fmt.Printf("  new alerts                 %d\n", res.Emitted)

		if res.Failures > 0 {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  failed writes              %d", res.Failures)))
		}

		for _, n := range res.Notifications {
			if n.IsRead {
				continue
			}

			fmt.Printf("  • %s %s\n", n.Title, mutedStyle.Render(n.Message))
		}

		return nil
	})
}
