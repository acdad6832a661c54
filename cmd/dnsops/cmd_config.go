package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdConfig returns a command that reads and validates the current
// configuration.
func newCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "config",
		Short:              "Read and validate configuration",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdConfigValidate())
	return cmd
}

func newCmdConfigValidate() *cobra.Command {
	return &cobra.Command{
		Use:                "validate",
		Short:              "Validate the configuration file",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// Print a concise summary to stdout
			fmt.Fprintf(cmd.OutOrStdout(), "version=%s domain=%s registrar=%s dns=%s records=%d managed=%d\n",
				cfg.Version, cfg.Domain, cfg.Registrar.Driver, cfg.DNS.Driver, len(cfg.Records.Desired), len(cfg.Records.Managed))
			return nil
		},
	}
}
