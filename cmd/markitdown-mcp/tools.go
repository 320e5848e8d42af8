package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		showSchema, _ := cmd.Flags().GetBool("schema")
		out := cmd.OutOrStdout()
		for _, t := range a.Registry.GetTools() {
			fmt.Fprintf(out, "%s  %s\n", color.CyanString(t.Name()), t.Description())
			if showSchema {
				schema, err := json.MarshalIndent(t.InputSchema(), "  ", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s\n", schema)
			}
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().Bool("schema", false, "print each tool's input schema")
	rootCmd.AddCommand(toolsCmd)
}
