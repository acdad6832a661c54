package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/usecase/snapshot"
)

func newCmdSnapshot() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "snapshot",
		Short:              "Capture and inspect pre-cutover state snapshots",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdSnapshotTake(), newCmdSnapshotList(), newCmdSnapshotShow())
	return cmd
}

func newCmdSnapshotTake() *cobra.Command {
	return &cobra.Command{
		Use:                "take",
		Short:              "Capture registrar nameservers, records, and an HTTP probe",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := buildSnapshotUseCase(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "snapshot.take", cfg.Domain)
			defer func() { cleanup(err) }()

			out, err := uc.Capture(ctx, &snapshot.CaptureInput{
				Zone:        cfg.Domain,
				ProbeTarget: cfg.ProbeTarget(),
			})
			if err != nil {
				return err
			}
			snap := out.Snapshot
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "snapshot %s stored (%d records, %d nameservers)\n", snap.ID, len(snap.Records), len(snap.Nameservers))
			for _, warn := range snap.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warn)
			}
			return nil
		},
	}
}

func newCmdSnapshotList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List stored snapshots, newest first",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, err := buildSnapshotRepo(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "snapshot.list", cfg.Domain)
			defer func() { cleanup(err) }()

			uc := &snapshot.UseCase{Repo: repo}
			out, err := uc.List(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Snapshots) == 0 {
				fmt.Fprintln(w, "No snapshots stored.")
				return nil
			}
			for _, s := range out.Snapshots {
				partial := ""
				if s.Partial() {
					partial = " partial"
				}
				fmt.Fprintf(w, "%s  %s  %s  %d records%s\n", s.ID, s.Timestamp.Format("2006-01-02 15:04:05"), s.Zone, len(s.Records), partial)
			}
			return nil
		},
	}
}

func newCmdSnapshotShow() *cobra.Command {
	return &cobra.Command{
		Use:                "show ID",
		Short:              "Print one stored snapshot as JSON",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, err := buildSnapshotRepo(cmd, cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "snapshot.show", cfg.Domain)
			defer func() { cleanup(err) }()

			uc := &snapshot.UseCase{Repo: repo}
			snap, err := uc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
