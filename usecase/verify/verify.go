package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/internal/logging"
)

const (
	defaultMaxAttempts = 30
	defaultInterval    = 10 * time.Second
)

// Verify polls observed state with a fixed-delay retry until it matches
// the expectation or the attempt budget runs out. DNS propagation delay
// dominates here, not backpressure, so the delay stays fixed instead of
// exponential. The delay runs between attempts, not after the last one,
// so an exhausted run sleeps maxAttempts-1 times; total wall time stays
// bounded by maxAttempts x interval.
// Transient read errors count as a failed attempt and the loop continues.
func (u *UseCase) Verify(ctx context.Context, in *Input) (*Output, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Zone == "" {
		return nil, &model.ValidationError{Msg: "zone is required"}
	}
	maxAttempts := in.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	interval := in.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	logger := logging.FromContext(ctx)
	start := time.Now()
	out := &Output{}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.Attempts = attempt
		obs := u.observe(ctx, in)
		out.Observed = obs
		if len(obs.Mismatches) == 0 {
			out.Matched = true
			break
		}
		logger.Info(ctx, "verification attempt did not match", "attempt", attempt, "of", maxAttempts, "mismatches", strings.Join(obs.Mismatches, "; "))
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			out.Elapsed = time.Since(start)
			return out, ctx.Err()
		case <-time.After(interval):
		}
	}

	out.Elapsed = time.Since(start)
	return out, nil
}

// observe reads one sample of observed state and records every mismatch
// against the expectation.
func (u *UseCase) observe(ctx context.Context, in *Input) *Observation {
	obs := &Observation{}
	expect := in.Expect

	if len(expect.Nameservers) > 0 {
		ns, err := u.Reader.Nameservers(ctx, in.Zone)
		if err != nil {
			obs.Mismatches = append(obs.Mismatches, fmt.Sprintf("nameservers: %v", err))
		} else {
			obs.Nameservers = ns
			if !nameserversEqual(ns, expect.Nameservers) {
				obs.Mismatches = append(obs.Mismatches,
					fmt.Sprintf("nameservers: observed %v, expected %v", ns, expect.Nameservers))
			}
		}
	}

	if len(expect.Records) > 0 {
		recs, err := u.Reader.Records(ctx, in.Zone, expect.Scope)
		if err != nil {
			obs.Mismatches = append(obs.Mismatches, fmt.Sprintf("records: %v", err))
		} else {
			obs.Records = recs
			if !recs.Equal(expect.Records, expect.TTLStrict) {
				obs.Mismatches = append(obs.Mismatches,
					fmt.Sprintf("records: observed %d managed records, expected %d to match", len(recs), len(expect.Records)))
			}
		}
	}

	if expect.ForwardingAbsent && in.ProbeTarget != "" {
		probe, err := u.Prober.Probe(ctx, in.ProbeTarget)
		if err != nil {
			obs.Mismatches = append(obs.Mismatches, fmt.Sprintf("probe: %v", err))
		} else {
			obs.Probe = probe
			if expect.Signature.Matches(probe) {
				obs.Mismatches = append(obs.Mismatches, "probe: forwarding signature still present")
			}
		}
	}

	return obs
}

// nameserversEqual compares nameserver sets order-insensitively after
// normalization.
func nameserversEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	na := normalizeNS(a)
	nb := normalizeNS(b)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

func normalizeNS(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ns := range in {
		out = append(out, strings.ToLower(strings.TrimSuffix(strings.TrimSpace(ns), ".")))
	}
	sort.Strings(out)
	return out
}
