package cmd

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/lexio/internal/store"
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "lexio",
	Short: "Adaptive language drills in the terminal",
	Long:  "Lexio is a terminal language tutor that schedules reviews with spaced repetition and adapts exercise difficulty to your performance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrill(cmd)
	},
}

func Execute() error {
	// Optional .env for LEXIO_DB and friends.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXIO_DB env var)")
	rootCmd.PersistentFlags().String("learner", "default", "Learner profile name")
	rootCmd.PersistentFlags().String("bank", "", "Path to the exercise bank JSON file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LEXIO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func setupLogging(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		logger.SetLevel(charmlog.DebugLevel)
	}
}
