package cmd

import (
	"github.com/spf13/cobra"

	"github.com/philjestin/buildsass/internal/config"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return encode(cmd.OutOrStdout(), schemaFormat, config.Schema())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "json", "output format: json|yaml")
}
