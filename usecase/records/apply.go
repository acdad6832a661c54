package records

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/internal/logging"
)

const defaultConcurrency = 4

// ApplyInput holds parameters for plan execution.
type ApplyInput struct {
	Zone        string          `json:"zone"`
	Desired     model.RecordSet `json:"desired"`
	Scope       []model.Key     `json:"scope"`
	TTLStrict   bool            `json:"ttl_strict,omitempty"`
	DryRun      bool            `json:"dry_run,omitempty"`
	Concurrency int             `json:"concurrency,omitempty"` // per-phase bound, default 4
}

// ApplyOutput holds the aggregate result of plan execution.
type ApplyOutput struct {
	Plan    *model.Plan    `json:"plan"`
	Results []RecordResult `json:"results"`
	Applied bool           `json:"applied"` // true only if every entry succeeded
}

// Failures returns the results that did not succeed.
func (o *ApplyOutput) Failures() []RecordResult {
	var out []RecordResult
	for _, r := range o.Results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Apply computes the plan and executes it. Creates and updates run
// before deletes so a name never transiently drops to zero records.
// Entries are independent: one failure never aborts the rest, and the
// exact failed records are surfaced for manual remediation. In dry-run
// mode no provider call is made.
func (u *UseCase) Apply(ctx context.Context, in *ApplyInput) (*ApplyOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	planOut, err := u.Plan(ctx, &PlanInput{Zone: in.Zone, Desired: in.Desired, Scope: in.Scope, TTLStrict: in.TTLStrict})
	if err != nil {
		return nil, err
	}
	plan := planOut.Plan
	out := &ApplyOutput{Plan: plan}

	if in.DryRun {
		for _, e := range plan.Entries() {
			out.Results = append(out.Results, RecordResult{Record: e.Record, Action: e.Action, Planned: true, Success: true})
		}
		out.Applied = true
		return out, nil
	}

	logger := logging.FromContext(ctx)

	// Phase 1: creates and updates. Phase 2: deletes.
	var forward, deletes []model.PlanEntry
	for _, e := range plan.Entries() {
		if e.Action == model.ActionDelete {
			deletes = append(deletes, e)
		} else {
			forward = append(forward, e)
		}
	}
	out.Results = append(out.Results, u.runPhase(ctx, in, forward)...)
	out.Results = append(out.Results, u.runPhase(ctx, in, deletes)...)

	out.Applied = true
	for _, r := range out.Results {
		if !r.Success {
			out.Applied = false
			logger.Error(ctx, "record apply failed", "zone", in.Zone, "action", r.Action, "record", r.Record.String(), "error", r.Error)
		}
	}
	return out, nil
}

// runPhase executes one phase of plan entries with bounded concurrency.
// Results are collected under a lock and re-sorted into plan order so
// output stays deterministic regardless of scheduling.
func (u *UseCase) runPhase(ctx context.Context, in *ApplyInput, entries []model.PlanEntry) []RecordResult {
	if len(entries) == 0 {
		return nil
	}
	limit := in.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]RecordResult, 0, len(entries))
		sem     = make(chan struct{}, limit)
	)
	order := make(map[string]int, len(entries))
	for i, e := range entries {
		order[string(e.Action)+"\x00"+e.Record.String()] = i
	}

	for _, e := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(e model.PlanEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			var err error
			switch e.Action {
			case model.ActionCreate:
				err = u.Driver.CreateRecord(ctx, in.Zone, e.Record)
			case model.ActionUpdate:
				err = u.Driver.UpdateRecord(ctx, in.Zone, e.Record)
			case model.ActionDelete:
				err = u.Driver.DeleteRecord(ctx, in.Zone, e.Record)
			}
			res := RecordResult{Record: e.Record, Action: e.Action, Success: err == nil}
			if err != nil {
				res.Error = err.Error()
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(e)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		a := order[string(results[i].Action)+"\x00"+results[i].Record.String()]
		b := order[string(results[j].Action)+"\x00"+results[j].Record.String()]
		return a < b
	})
	return results
}
