package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/usecase/verify"
)

func newCmdVerify() *cobra.Command {
	var (
		postCutover bool
		attempts    int
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Poll observed DNS state until it matches the expectation",
		Long: "Verify polls public DNS for the expected nameserver delegation. " +
			"With --post-cutover it also checks the managed records and the absence of the registrar forwarding signature.",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "verify", cfg.Domain)
			defer func() { cleanup(err) }()

			// Expected delegation is whatever the secondary provider serves.
			secondary, err := buildDriver(cfg.DNS)
			if err != nil {
				return err
			}
			ns, err := secondary.Nameservers(ctx, cfg.Domain)
			if err != nil {
				return fmt.Errorf("read secondary nameservers: %w", err)
			}

			expect := verify.Expectation{Nameservers: ns, TTLStrict: cfg.Records.TTLStrict}
			if postCutover {
				desired, err := cfg.DesiredRecordSet()
				if err != nil {
					return err
				}
				expect.Records = desired
				expect.Scope = cfg.ManagedScope()
				expect.ForwardingAbsent = true
				expect.Signature = cfg.ForwardingSignature()
			}

			if attempts <= 0 {
				attempts = cfg.VerifyAttempts()
			}
			if interval <= 0 {
				interval = cfg.VerifyInterval()
			}

			uc := buildVerifyUseCase(cfg)
			out, err := uc.Verify(ctx, &verify.Input{
				Zone:        cfg.Domain,
				ProbeTarget: cfg.ProbeTarget(),
				Expect:      expect,
				MaxAttempts: attempts,
				Interval:    interval,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Matched {
				fmt.Fprintf(w, "verified after %d attempt(s) in %s\n", out.Attempts, out.Elapsed.Round(time.Millisecond))
				return nil
			}
			for _, m := range out.Observed.Mismatches {
				fmt.Fprintf(w, "mismatch: %s\n", m)
			}
			return ExitCodeError{Code: 1, Err: fmt.Errorf("verification did not converge after %d attempt(s)", out.Attempts)}
		},
	}

	cmd.Flags().BoolVar(&postCutover, "post-cutover", false, "Also verify managed records and absence of the forwarding signature")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "Attempt budget (default: verify.attempts in config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Fixed delay between attempts (default: verify.interval in config)")
	return cmd
}
