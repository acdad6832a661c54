package cutover

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/internal/logging"
	"github.com/northroot-labs/dnsops/usecase/records"
	"github.com/northroot-labs/dnsops/usecase/snapshot"
	"github.com/northroot-labs/dnsops/usecase/verify"
)

// Run executes the cutover state machine:
//
//  1. snapshot current registrar state (fatal if not even partial),
//  2. reconcile the secondary provider to the desired target (halt
//     before any authority change when parity is incomplete),
//  3. switch registrar nameservers to the secondary provider,
//  4. verify; on exhaustion, roll nameservers back from the snapshot
//     exactly once.
//
// The report is returned even alongside an error so the snapshot
// reference always reaches the operator.
func (u *UseCase) Run(ctx context.Context, in *RunInput) (*Report, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Zone == "" {
		return nil, &model.ValidationError{Msg: "zone is required"}
	}
	logger := logging.FromContext(ctx)
	report := &Report{RunID: uuid.NewString(), Zone: in.Zone, FinalState: StateIdle}

	// Precondition: the secondary zone must exist before the machine runs.
	target, err := u.ensureTarget(ctx, in, report)
	if err != nil {
		return report, err
	}

	if in.DryRun {
		return u.dryRun(ctx, in, report, target)
	}

	// Idle -> SnapshotTaken
	capOut, err := u.Snapshots.Capture(ctx, &snapshot.CaptureInput{Zone: in.Zone, ProbeTarget: in.ProbeTarget})
	if err != nil {
		return report, fmt.Errorf("snapshot capture: %w", err)
	}
	snap := capOut.Snapshot
	report.SnapshotID = snap.ID
	if err := report.advance(StateSnapshotTaken); err != nil {
		return report, err
	}
	report.step(fmt.Sprintf("snapshot %s stored (partial=%v)", snap.ID, snap.Partial()))
	if snap.Partial() {
		logger.Warn(ctx, "proceeding with partial snapshot", "id", snap.ID, "warnings", strings.Join(snap.Warnings, "; "))
	}

	// SnapshotTaken -> ParityApplied
	parity, err := u.Records.Apply(ctx, &records.ApplyInput{
		Zone: in.Zone, Desired: in.Desired, Scope: in.Scope, TTLStrict: in.TTLStrict,
	})
	if err != nil {
		return report, fmt.Errorf("secondary parity (snapshot %s): %w", snap.ID, err)
	}
	report.Parity = parity
	if !parity.Applied {
		return report, fmt.Errorf("secondary parity incomplete, %d record(s) failed; nameservers untouched (snapshot %s)",
			len(parity.Failures()), snap.ID)
	}
	if err := report.advance(StateParityApplied); err != nil {
		return report, err
	}
	report.step(fmt.Sprintf("secondary provider %s at parity (%d change(s))", u.Secondary.ID(), parity.Plan.Size()))

	// ParityApplied -> NameserversSwitched
	if err := u.Registrar.SetNameservers(ctx, in.Zone, target); err != nil {
		return report, fmt.Errorf("switch nameservers (snapshot %s): %w", snap.ID, err)
	}
	if err := report.advance(StateNameserversSwitched); err != nil {
		return report, err
	}
	report.step(fmt.Sprintf("registrar nameservers set to %s", strings.Join(target, ", ")))
	logger.Info(ctx, "nameservers switched", "zone", in.Zone, "nameservers", strings.Join(target, ","), "snapshot", snap.ID)

	// NameserversSwitched -> Verified | RollbackInProgress
	ver, err := u.Verifier.Verify(ctx, &verify.Input{
		Zone:        in.Zone,
		ProbeTarget: in.ProbeTarget,
		MaxAttempts: in.MaxAttempts,
		Interval:    in.Interval,
		Expect: verify.Expectation{
			Nameservers:      target,
			Records:          in.Desired,
			Scope:            in.Scope,
			TTLStrict:        in.TTLStrict,
			ForwardingAbsent: true,
			Signature:        in.Signature,
		},
	})
	report.Verification = ver
	if err != nil {
		// Cancellation mid-verification: leave the snapshot reference for
		// manual recovery, do not auto-rollback on an operator abort.
		return report, fmt.Errorf("verification aborted (snapshot %s): %w", snap.ID, err)
	}
	if ver.Matched {
		if err := report.advance(StateVerified); err != nil {
			return report, err
		}
		report.step(fmt.Sprintf("cutover verified after %d attempt(s)", ver.Attempts))
		if err := report.advance(StateDone); err != nil {
			return report, err
		}
		report.step("done")
		return report, nil
	}

	// NameserversSwitched -> RollbackInProgress -> RolledBack
	convergence := &model.ConvergenceError{Attempts: ver.Attempts, Elapsed: ver.Elapsed}
	logger.Error(ctx, "cutover verification exhausted, rolling back", "zone", in.Zone, "snapshot", snap.ID, "error", convergence)
	if err := report.advance(StateRollbackInProgress); err != nil {
		return report, err
	}
	report.step("restoring nameservers from snapshot " + snap.ID)

	rb, err := u.rollbackNameservers(ctx, in, snap)
	report.Rollback = rb
	if err != nil {
		return report, &model.RollbackError{SnapshotID: snap.ID, Err: err}
	}
	if err := report.advance(StateRolledBack); err != nil {
		return report, err
	}
	report.step(fmt.Sprintf("nameservers restored to %s", strings.Join(snap.Nameservers, ", ")))
	return report, convergence
}

// ensureTarget resolves the target nameserver set, creating the zone on
// the secondary provider when asked and missing.
func (u *UseCase) ensureTarget(ctx context.Context, in *RunInput, report *Report) ([]string, error) {
	if len(in.TargetNameservers) > 0 {
		return in.TargetNameservers, nil
	}
	ns, err := u.Secondary.Nameservers(ctx, in.Zone)
	if err == nil && len(ns) > 0 {
		return ns, nil
	}
	if in.CreateZone {
		creator, ok := u.Secondary.(model.ZoneCreator)
		if !ok {
			return nil, &model.ValidationError{Msg: fmt.Sprintf("provider %s cannot create zones", u.Secondary.ID())}
		}
		if in.DryRun {
			report.step(fmt.Sprintf("would create zone %s on %s", in.Zone, u.Secondary.ID()))
			return nil, nil
		}
		created, cerr := creator.CreateZone(ctx, in.Zone)
		if cerr != nil {
			return nil, fmt.Errorf("create zone on %s: %w", u.Secondary.ID(), cerr)
		}
		report.step(fmt.Sprintf("zone %s created on %s", in.Zone, u.Secondary.ID()))
		return created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve target nameservers from %s: %w", u.Secondary.ID(), err)
	}
	return nil, &model.ValidationError{Msg: fmt.Sprintf("provider %s reported no nameservers for %s", u.Secondary.ID(), in.Zone)}
}

// dryRun reports what the state machine would do without side effects.
func (u *UseCase) dryRun(ctx context.Context, in *RunInput, report *Report, target []string) (*Report, error) {
	report.step("would snapshot registrar nameservers, full record set, and HTTP probe")

	planOut, err := u.Records.Plan(ctx, &records.PlanInput{
		Zone: in.Zone, Desired: in.Desired, Scope: in.Scope, TTLStrict: in.TTLStrict,
	})
	if err != nil {
		return report, fmt.Errorf("plan secondary parity: %w", err)
	}
	report.step(fmt.Sprintf("would apply %d change(s) to %s for parity", planOut.Plan.Size(), u.Secondary.ID()))
	if len(target) > 0 {
		report.step(fmt.Sprintf("would switch registrar nameservers to %s", strings.Join(target, ", ")))
	}
	report.step("would verify cutover and roll back from the snapshot on failure")
	return report, nil
}

// rollbackNameservers performs the single rollback attempt: restore the
// snapshot's nameserver assignment and verify it took effect. A failure
// here is fatal; the caller never retries.
func (u *UseCase) rollbackNameservers(ctx context.Context, in *RunInput, snap *model.Snapshot) (*verify.Output, error) {
	if len(snap.Nameservers) == 0 {
		return nil, fmt.Errorf("snapshot %s carries no nameservers to restore", snap.ID)
	}
	if err := u.Registrar.SetNameservers(ctx, in.Zone, snap.Nameservers); err != nil {
		return nil, fmt.Errorf("restore nameservers: %w", err)
	}
	rb, err := u.Verifier.Verify(ctx, &verify.Input{
		Zone:        in.Zone,
		MaxAttempts: in.MaxAttempts,
		Interval:    in.Interval,
		Expect:      verify.Expectation{Nameservers: snap.Nameservers},
	})
	if err != nil {
		return rb, fmt.Errorf("verify restored nameservers: %w", err)
	}
	if !rb.Matched {
		return rb, fmt.Errorf("restored nameservers did not verify after %d attempt(s)", rb.Attempts)
	}
	return rb, nil
}
