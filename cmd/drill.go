package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexio/internal/content"
	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/selector"
	"github.com/abhisek/lexio/internal/session"
	"github.com/abhisek/lexio/internal/store"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrill(cmd)
	},
}

func init() {
	drillCmd.Flags().String("category", "", "Skill category to practice (defaults to the bank's first category)")
	drillCmd.Flags().Int("length", session.DefaultLength, "Number of exercises in the session")
}

// runDrill opens the store, loads the exercise bank, and runs the
// interactive answer loop.
func runDrill(cmd *cobra.Command) error {
	setupLogging(cmd)
	ctx := cmd.Context()

	bankPath, _ := cmd.Flags().GetString("bank")
	if bankPath == "" {
		return errors.New("--bank is required: path to the exercise bank JSON file")
	}
	catalog, err := content.LoadFile(bankPath)
	if err != nil {
		return fmt.Errorf("load exercise bank: %w", err)
	}
	logger.Debug("bank loaded", "exercises", catalog.Len())

	category, _ := cmd.Flags().GetString("category")
	if category == "" {
		cats := catalog.Categories()
		if len(cats) == 0 {
			return errors.New("exercise bank is empty")
		}
		category = cats[0]
	}

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
	length, _ := cmd.Flags().GetInt("length")

	s := session.New(learnerID, category, session.Deps{
		Selector: selector.New(st, catalog, nil),
		Tracker:  difficulty.NewTracker(nil),
		Grader:   catalog,
		Store:    st,
	}, session.Config{Length: length})

	if err := s.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "Practicing %s (%d exercises). Type ? for a hint, q to quit.\n\n", category, length)

	for {
		attempt, err := s.Next(ctx)
		if errors.Is(err, session.ErrCompleted) {
			break
		}
		if errors.Is(err, selector.ErrNoContent) {
			fmt.Fprintln(out, "No more exercises available in this category.")
			break
		}
		if err != nil {
			return err
		}

		ex, ok := catalog.Get(attempt.ExerciseID)
		if !ok {
			// A due card whose exercise left the bank. Retire it and drop
			// the attempt so the loop moves on to the next selection.
			logger.Warn("exercise missing from bank, archiving card", "id", attempt.ExerciseID)
			if err := st.ArchiveCard(ctx, learnerID, attempt.ExerciseID); err != nil {
				return err
			}
			s.Abandon()
			continue
		}

		if attempt.IsReview {
			fmt.Fprintln(out, "[review]")
		}
		fmt.Fprintf(out, "%s\n> ", ex.Prompt)

		answer, quit := readAnswer(in, out, s, ex)
		if quit {
			break
		}

		outcome, err := s.Submit(ctx, answer)
		if err != nil {
			return err
		}
		printFeedback(out, outcome, ex)
	}

	printSummary(out, s.Summary())
	return nil
}

// readAnswer reads lines until a real answer or a quit request; "?"
// reveals the hint and keeps reading.
func readAnswer(in *bufio.Scanner, out io.Writer, s *session.Session, ex content.Exercise) (string, bool) {
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		switch line {
		case "q", "quit":
			return "", true
		case "?":
			s.UseHint()
			if ex.Hint != "" {
				fmt.Fprintf(out, "Hint: %s\n> ", ex.Hint)
			} else {
				fmt.Fprint(out, "No hint for this one.\n> ")
			}
		default:
			return line, false
		}
	}
	return "", true
}

func printFeedback(out io.Writer, outcome *session.Outcome, ex content.Exercise) {
	if outcome.Correct {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Not quite. The answer is %q.\n", ex.Answer)
	}
	if outcome.Card != nil {
		fmt.Fprintf(out, "Next review in %d day(s).\n", outcome.Card.IntervalDays)
	}
	fmt.Fprintln(out)
}

func printSummary(out io.Writer, sum session.Summary) {
	fmt.Fprintf(out, "\nSession over: %d/%d correct", sum.Correct, sum.Served)
	if sum.Served > 0 {
		fmt.Fprintf(out, " (%.0f%%)", sum.Accuracy*100)
	}
	fmt.Fprintln(out)
	if sum.Reviews > 0 {
		fmt.Fprintf(out, "Reviews completed: %d\n", sum.Reviews)
	}
	if sum.FinalSkill != nil {
		fmt.Fprintf(out, "Difficulty level: %d/5 (recent accuracy %.0f%%)\n",
			sum.FinalSkill.Level, sum.FinalSkill.RecentAccuracy*100)
	}
}
