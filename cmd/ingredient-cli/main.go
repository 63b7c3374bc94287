// Package main 食材解析命令列工具
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fridgewise/internal/infrastructure/bootstrap"
	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/pkg/common"

	"github.com/spf13/cobra"
)

// version 於建置時以 ldflags 注入
var version = "dev"

// app 由 PersistentPreRunE 建立，供子命令使用
var app *bootstrap.App

var rootCmd = &cobra.Command{
	Use:     "ingredient-cli",
	Short:   "Resolve noisy food labels into reference ingredients",
	Version: version,
	Long: `ingredient-cli runs the ingredient resolution pipeline from the command line.

Labels are filtered, searched against USDA FoodData Central, scored, deduplicated
and categorized. Results are written to stdout as JSON; logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			common.InitCLILogger("debug")
		} else {
			common.InitCLILogger("warn")
		}

		app, err = bootstrap.New(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "write debug logs to stderr")
	rootCmd.PersistentFlags().Bool("text", false, "print a plain text list instead of JSON")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
