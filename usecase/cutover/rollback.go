package cutover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northroot-labs/dnsops/domain/model"
)

// RollbackInput holds parameters for a manual rollback from a stored
// snapshot.
type RollbackInput struct {
	SnapshotID  string        `json:"snapshot_id"`
	Zone        string        `json:"zone,omitempty"` // default: the snapshot's zone
	DryRun      bool          `json:"dry_run,omitempty"`
	MaxAttempts int           `json:"max_attempts,omitempty"`
	Interval    time.Duration `json:"interval,omitempty"`
}

// Rollback restores registrar nameservers from a stored snapshot. This
// is the operator-driven recovery path for runs that halted after the
// automated single rollback attempt failed, or after a cancellation.
func (u *UseCase) Rollback(ctx context.Context, in *RollbackInput) (*Report, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.SnapshotID == "" {
		return nil, &model.ValidationError{Msg: "snapshot ID is required"}
	}
	snap, err := u.Snapshots.Get(ctx, in.SnapshotID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", in.SnapshotID, err)
	}
	zone := in.Zone
	if zone == "" {
		zone = snap.Zone
	}
	if len(snap.Nameservers) == 0 {
		return nil, &model.RollbackError{SnapshotID: snap.ID, Err: fmt.Errorf("snapshot carries no nameservers to restore")}
	}

	report := &Report{RunID: uuid.NewString(), Zone: zone, SnapshotID: snap.ID, FinalState: StateRollbackInProgress}
	if in.DryRun {
		report.step(fmt.Sprintf("would restore registrar nameservers to %s", strings.Join(snap.Nameservers, ", ")))
		return report, nil
	}

	rb, err := u.rollbackNameservers(ctx, &RunInput{Zone: zone, MaxAttempts: in.MaxAttempts, Interval: in.Interval}, snap)
	report.Rollback = rb
	if err != nil {
		return report, &model.RollbackError{SnapshotID: snap.ID, Err: err}
	}
	if err := report.advance(StateRolledBack); err != nil {
		return report, err
	}
	report.step(fmt.Sprintf("nameservers restored to %s", strings.Join(snap.Nameservers, ", ")))
	return report, nil
}
