package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"markitdownmcp/tools"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-args]",
	Short: "Invoke one tool and print its text response",
	Example: `  markitdown-mcp call convert_file_to_markdown '{"file_path":"~/report.pdf"}'
  markitdown-mcp call convert_url_to_markdown '{"url":"https://example.com"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		call := tools.Call{Tool: args[0], Arguments: map[string]any{}}
		if len(args) == 2 {
			if err := json.Unmarshal([]byte(args[1]), &call.Arguments); err != nil {
				return fmt.Errorf("arguments must be a JSON object: %w", err)
			}
		}

		a, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		resp := a.Dispatcher.Call(cmd.Context(), call.Tool, call.Arguments)
		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}
