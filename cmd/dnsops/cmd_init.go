package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/config/dnsopscfg"
)

func newCmdInit() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter dnsops.yml",
		Long: "Write a starter dnsops.yml for a registrar-parked domain moving to GitHub Pages. " +
			"Credentials use env: indirection so the file never carries secrets.",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagString(cmd, "config")
			if path == "" {
				path = dnsopscfg.DefaultConfigPath
			}
			if !forceFlag {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use -f to overwrite)", path)
				}
			}
			if err := os.WriteFile(path, dnsopscfg.InitialConfigYAML(flagString(cmd, "domain")), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
