package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexio/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
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

		skills, _, err := st.LoadLearnerState(ctx, learnerID)
		if err != nil {
			return err
		}
		stats, err := st.LearnerStats(ctx, learnerID)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No practice history yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tLEVEL\tATTEMPTS\tACCURACY\tAVG LATENCY")
		for _, cs := range stats {
			level := "-"
			if sl, ok := skills[cs.Category]; ok {
				level = fmt.Sprintf("%d/5", int(sl.Current))
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.0f%%\t%.1fs\n",
				cs.Category, level, cs.Attempts, cs.Accuracy*100, cs.AvgLatencyMs/1000)
		}
		return w.Flush()
	},
}
