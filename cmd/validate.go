package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexio/internal/content"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an exercise bank file",
	RunE: func(cmd *cobra.Command, args []string) error {
		bankPath, _ := cmd.Flags().GetString("bank")
		if bankPath == "" {
			return errors.New("--bank is required: path to the exercise bank JSON file")
		}

		catalog, err := content.LoadFile(bankPath)
		if err != nil {
			return fmt.Errorf("bank invalid: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d exercises, categories: %v)\n",
			bankPath, catalog.Len(), catalog.Categories())
		return nil
	},
}
