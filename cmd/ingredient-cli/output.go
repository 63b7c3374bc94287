package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"fridgewise/internal/pkg/common"

	"github.com/spf13/cobra"
)

// writeIngredients 依 --text 旗標輸出 JSON 或純文字
func writeIngredients(cmd *cobra.Command, items []common.ProcessedIngredient) error {
	text, _ := cmd.Flags().GetBool("text")
	return renderIngredients(cmd.OutOrStdout(), items, text)
}

func renderIngredients(w io.Writer, items []common.ProcessedIngredient, text bool) error {
	if text {
		_, err := io.WriteString(w, common.FormatIngredients(items))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(common.NewIngredientListResponse(items))
}

// readTags 由參數或輸入串流讀取標籤，以換行或逗號分隔
func readTags(args []string, in io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var tags []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, part := range strings.Split(scanner.Text(), ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	return tags, scanner.Err()
}
