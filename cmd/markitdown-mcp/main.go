// Package main is the entry point for the markitdown MCP server and its CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"markitdownmcp/app"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "markitdown-mcp",
	Short: "MCP server that converts documents and web pages to Markdown",
	Long: `markitdown-mcp exposes markitdown to MCP clients over stdio. It offers three
tools: convert_file_to_markdown, convert_url_to_markdown and supported_formats.

Run without a subcommand to serve. The other subcommands run the same tools
from the shell for debugging.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Stdout belongs to the MCP transport.
		level := slog.LevelInfo
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging on stderr")
}

// setup builds the application and returns it with a cleanup func that logs
// shutdown errors.
func setup(ctx context.Context) (*app.App, func(), error) {
	a, err := app.New(ctx, app.Options{})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Error("SHUTDOWN: Failed to close", "error", err)
		}
	}
	return a, cleanup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
