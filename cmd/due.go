package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexio/internal/store"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List review cards that are due",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd)
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		learnerID, _ := cmd.Flags().GetString("learner")

		now := time.Now()
		cards, err := st.DueCards(ctx, learnerID, now)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Nice.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tOVERDUE\tEASE\tREPS")
		for _, c := range cards {
			fmt.Fprintf(w, "%s\t%.1fd\t%.2f\t%d\n",
				c.ItemID, c.OverdueDays(now), c.EaseFactor, c.Repetitions)
		}
		return w.Flush()
	},
}
