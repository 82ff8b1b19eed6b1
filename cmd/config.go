package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-go-compiler/pkg/config"
)

var printDefaultConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "prints the resolved configuration as yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if !printDefaultConfig {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}
			defer w.sync()
			cfg = w.config
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&printDefaultConfig, "default", false, "default prints the default configuration instead of loading one")
}
