package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/usecase/cutover"
)

func newCmdCutover() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "cutover",
		Short:              "Move nameserver authority to the secondary provider",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdCutoverRun(), newCmdCutoverRollback())
	return cmd
}

func printReport(cmd *cobra.Command, report *cutover.Report) {
	if report == nil {
		return
	}
	w := cmd.OutOrStdout()
	for _, s := range report.Steps {
		fmt.Fprintf(w, "[%s] %s\n", s.State, s.Detail)
	}
	if report.SnapshotID != "" {
		fmt.Fprintf(w, "snapshot: %s\n", report.SnapshotID)
	}
	fmt.Fprintf(w, "final state: %s\n", report.FinalState)
}

func newCmdCutoverRun() *cobra.Command {
	var (
		apply      bool
		createZone bool
		ns         []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Snapshot, reconcile records, switch nameservers, verify",
		Long: "Run the full cutover sequence: capture a snapshot, bring the secondary provider's records to parity, " +
			"point the registrar at the secondary nameservers, and poll until public DNS agrees. " +
			"A failed verification triggers one automatic nameserver rollback. Without --apply this is a dry run.",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := buildCutoverUseCase(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "cutover.run", cfg.Domain)
			defer func() { cleanup(err) }()

			desired, err := cfg.DesiredRecordSet()
			if err != nil {
				return err
			}
			report, err := uc.Run(ctx, &cutover.RunInput{
				Zone:              cfg.Domain,
				ProbeTarget:       cfg.ProbeTarget(),
				Desired:           desired,
				Scope:             cfg.ManagedScope(),
				TTLStrict:         cfg.Records.TTLStrict,
				TargetNameservers: ns,
				CreateZone:        createZone,
				DryRun:            !apply,
				MaxAttempts:       cfg.VerifyAttempts(),
				Interval:          cfg.VerifyInterval(),
				Signature:         cfg.ForwardingSignature(),
			})
			printReport(cmd, report)
			if err != nil {
				return ExitCodeError{Code: 1, Err: err}
			}
			if !apply {
				fmt.Fprintln(cmd.OutOrStdout(), "Dry-run only. Re-run with --apply to execute.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the cutover (default is dry-run)")
	cmd.Flags().BoolVar(&createZone, "create-zone", false, "Create the zone on the secondary provider when missing")
	cmd.Flags().StringSliceVar(&ns, "nameserver", nil, "Target nameserver (repeatable; default: read from the secondary provider)")
	return cmd
}

func newCmdCutoverRollback() *cobra.Command {
	var (
		apply      bool
		snapshotID string
	)

	cmd := &cobra.Command{
		Use:                "rollback",
		Short:              "Restore registrar nameservers from a stored snapshot",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := buildCutoverUseCase(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "cutover.rollback", cfg.Domain)
			defer func() { cleanup(err) }()

			report, err := uc.Rollback(ctx, &cutover.RollbackInput{
				SnapshotID:  snapshotID,
				Zone:        cfg.Domain,
				DryRun:      !apply,
				MaxAttempts: cfg.VerifyAttempts(),
				Interval:    cfg.VerifyInterval(),
			})
			printReport(cmd, report)
			if err != nil {
				return ExitCodeError{Code: 1, Err: err}
			}
			if !apply {
				fmt.Fprintln(cmd.OutOrStdout(), "Dry-run only. Re-run with --apply to execute.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the rollback (default is dry-run)")
	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Snapshot ID to restore from (required)")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}
