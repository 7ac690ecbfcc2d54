package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brackwater-io/depsentry/pkg/config"
)

// NewConfigShowCommand builds the `config show` subcommand: dumps the
// effective, defaults-applied configuration as YAML to stdout.
func NewConfigShowCommand() *cobra.Command {
	var configFile string

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigShow(configFile)
		},
	}

	showCmd.Flags().StringVar(&configFile, "config", "", "path to the policy configuration file")

	configCmd.AddCommand(showCmd)

	return configCmd
}

func runConfigShow(configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()

	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}
