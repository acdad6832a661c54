package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/usecase/records"
)

func newCmdRecords() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "records",
		Short:              "Reconcile DNS records against the secondary provider",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdRecordsPlan(), newCmdRecordsApply())
	return cmd
}

// printPlan writes the deterministic plan report. The ordering comes
// from the differ, so repeated runs against unchanged state are
// byte-identical.
func printPlan(w io.Writer, plan *model.Plan) {
	if plan.Empty() {
		fmt.Fprintln(w, "No changes. Live state matches the desired record set.")
		return
	}
	for _, e := range plan.Entries() {
		ttl := ""
		if e.Record.TTL > 0 {
			ttl = fmt.Sprintf(" (ttl %d)", e.Record.TTL)
		}
		fmt.Fprintf(w, "%s: %s %s -> %s%s\n", e.Action, e.Record.Type, e.Record.Name, e.Record.Value, ttl)
	}
}

func newCmdRecordsPlan() *cobra.Command {
	return &cobra.Command{
		Use:                "plan",
		Short:              "Show the changes needed to reach the desired record set",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := buildRecordsUseCase(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "records.plan", cfg.Domain)
			defer func() { cleanup(err) }()

			desired, err := cfg.DesiredRecordSet()
			if err != nil {
				return err
			}
			out, err := uc.Plan(ctx, &records.PlanInput{
				Zone:      cfg.Domain,
				Desired:   desired,
				Scope:     cfg.ManagedScope(),
				TTLStrict: cfg.Records.TTLStrict,
			})
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), out.Plan)
			return nil
		},
	}
}

func newCmdRecordsApply() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:                "apply",
		Short:              "Apply the desired record set to the secondary provider",
		Long:               "Apply the desired record set. Without --apply this is a dry run that only prints the plan.",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := buildRecordsUseCase(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "records.apply", cfg.Domain)
			defer func() { cleanup(err) }()

			desired, err := cfg.DesiredRecordSet()
			if err != nil {
				return err
			}
			out, err := uc.Apply(ctx, &records.ApplyInput{
				Zone:      cfg.Domain,
				Desired:   desired,
				Scope:     cfg.ManagedScope(),
				TTLStrict: cfg.Records.TTLStrict,
				DryRun:    !apply,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !apply {
				printPlan(w, out.Plan)
				fmt.Fprintln(w, "Dry-run only. Re-run with --apply to execute.")
				return nil
			}
			for _, r := range out.Results {
				if r.Success {
					fmt.Fprintf(w, "%sd: %s %s -> %s\n", r.Action, r.Record.Type, r.Record.Name, r.Record.Value)
				} else {
					fmt.Fprintf(w, "failed (%s): %s %s -> %s: %s\n", r.Action, r.Record.Type, r.Record.Name, r.Record.Value, r.Error)
				}
			}
			if !out.Applied {
				return ExitCodeError{Code: 1, Err: fmt.Errorf("%d of %d record change(s) failed", len(out.Failures()), len(out.Results))}
			}
			if out.Plan.Empty() {
				fmt.Fprintln(w, "No changes. Live state matches the desired record set.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute changes (default is dry-run)")
	return cmd
}
