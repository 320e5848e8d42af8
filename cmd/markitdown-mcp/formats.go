package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"markitdownmcp/tools"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Print the supported file formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := tools.NewSupportedFormats().Run(cmd.Context(), nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
