package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/lensflow/internal/config"
	"github.com/MrJamesThe3rd/lensflow/internal/filter"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard totals",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(_ *config.Config, s *session.Session) error {
		st := s.Ledger.Stats()

		assets, err := s.Inventory.List(cmd.Context())
		if err != nil {
			return err
		}

		eq := filter.Totals(assets)

		fmt.Println(titleStyle.Render("STUDIO " + s.Account))
		fmt.Printf("  income             %s\n", st.TotalIncome.StringFixed(2))
		fmt.Printf("  expenses           %s\n", st.TotalExpenses.StringFixed(2))
		fmt.Printf("  net profit         %s\n", st.NetProfit.StringFixed(2))
		fmt.Printf("  active projects    %d\n", st.ActiveCount)
		fmt.Printf("  pending projects   %d\n", st.PendingCount)
		fmt.Printf("  completed projects %d\n", st.CompletedCount)
		fmt.Printf("  unread alerts      %d\n", st.UnreadCount)
		fmt.Printf("  equipment          %d items, %s\n", eq.Count, eq.Value.StringFixed(2))

		return nil
	})
}
