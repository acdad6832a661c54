package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/northroot-labs/dnsops/adapters/drivers/provider/azuredns"
	_ "github.com/northroot-labs/dnsops/adapters/drivers/provider/cloudflare"
	_ "github.com/northroot-labs/dnsops/adapters/drivers/provider/namecheap"
	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dnsops",
		Short:   "DNS reconciliation and cutover controller",
		Long:    "dnsops manages a domain's DNS records and nameserver authority across a registrar and a secondary DNS host.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("DNSOPS_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "dnsops.yml"
	}
	cmd.PersistentFlags().String("config", defaultConfig, "Configuration file (env DNSOPS_CONFIG)")
	cmd.PersistentFlags().String("domain", "", "Domain to operate on (default: domain in config)")
	cmd.PersistentFlags().String("snapshot-url", "", "Snapshot store URL (env DNSOPS_SNAPSHOT_URL) (file:<dir> | sqlite:<dsn>)")
	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env DNSOPS_LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("DNSOPS_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		l, err := logging.New(format, slog.LevelInfo)
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdRecords())
	cmd.AddCommand(newCmdSnapshot())
	cmd.AddCommand(newCmdVerify())
	cmd.AddCommand(newCmdCutover())
	cmd.AddCommand(newCmdPreflight())
	return cmd
}

// exitCode maps an error to the process exit code: 2 for validation and
// configuration problems, 1 otherwise. Explicit ExitCodeError wins.
func exitCode(err error) int {
	var ec ExitCodeError
	if errors.As(err, &ec) {
		return ec.Code
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return 2
	}
	return 1
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(exitCode(err))
	}
}
