package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <query> <description>",
	Short: "Show how a reference description is scored for a query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts := app.Ingredient.Explain(args[0], args[1])

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		total := 0.0
		for _, c := range parts {
			total += c.Delta
			fmt.Fprintf(w, "%s\t%+.3f\n", c.Rule, c.Delta)
		}
		fmt.Fprintf(w, "total\t%+.3f\n", total)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
