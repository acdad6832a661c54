package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northroot-labs/dnsops/usecase/preflight"
)

func newCmdPreflight() *cobra.Command {
	var (
		require []string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:                "preflight",
		Short:              "Check provider credentials and tooling readiness",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "preflight", "")
			defer func() { cleanup(err) }()

			uc := preflight.New()
			out, err := uc.Run(ctx, &preflight.Input{Require: require, Strict: strict})
			w := cmd.OutOrStdout()
			if out != nil {
				for _, c := range out.Checks {
					mark := "ok"
					if !c.OK {
						mark = "--"
					}
					fmt.Fprintf(w, "[%s] %-10s %s\n", mark, c.Name, c.Summary)
					for _, d := range c.Details {
						fmt.Fprintf(w, "            %s\n", d)
					}
				}
			}
			if err != nil {
				return ExitCodeError{Code: 1, Err: err}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&require, "require", nil, fmt.Sprintf("Provider that must be ready (repeatable; one of %v)", preflight.Names()))
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a required provider is not ready")
	return cmd
}
