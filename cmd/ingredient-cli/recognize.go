package main

import (
	"fmt"
	"os"

	"fridgewise/internal/pkg/common"

	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize an image and resolve the detected labels",
	Long: `Recognize sends a local image to the vision model, then runs the detected
labels through the ingredient pipeline. Use --tags-only to print the raw labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("image")
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		dataURI, err := app.Images.ProcessBytes(raw)
		if err != nil {
			return err
		}

		tags, err := app.Ingredient.Recognize(cmd.Context(), dataURI)
		if err != nil {
			return err
		}

		tagsOnly, _ := cmd.Flags().GetBool("tags-only")
		if tagsOnly {
			out, err := common.ToJSON(tags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		}

		return writeIngredients(cmd, app.Ingredient.Analyze(cmd.Context(), tags))
	},
}

func init() {
	recognizeCmd.Flags().StringP("image", "i", "", "path to a JPEG, PNG, GIF or WebP image")
	recognizeCmd.Flags().Bool("tags-only", false, "print recognized labels without resolving them")
	_ = recognizeCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(recognizeCmd)
}
