package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"markitdownmcp/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over MCP stdio (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, cleanup, err := setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		name := a.Server.Name
		ver := a.Server.Version
		if version != "dev" {
			ver = version
		}

		s, err := mcpserver.New(mcpserver.Options{Name: name, Version: ver}, a.Registry, a.Dispatcher)
		if err != nil {
			return err
		}
		return mcpserver.ServeStdio(ctx, s, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
