package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [labels...]",
	Short: "Resolve recognition labels into ingredients",
	Long: `Analyze runs the full label pipeline on the given labels. Without arguments
labels are read from stdin, one per line or comma separated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := readTags(args, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read labels: %w", err)
		}
		items := app.Ingredient.Analyze(cmd.Context(), tags)
		return writeIngredients(cmd, items)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
