package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the reference database for ingredients",
	Long: `Search queries FoodData Central directly, skipping recognition and label
filtering. Results are ranked by adjusted score and deduplicated by name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		items := app.Ingredient.SearchIngredients(cmd.Context(), strings.Join(args, " "), limit)
		return writeIngredients(cmd, items)
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 10, "maximum number of results (max 25)")
	rootCmd.AddCommand(searchCmd)
}
