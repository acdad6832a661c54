package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/internal/logging"
)

// CaptureInput holds parameters for snapshot capture.
type CaptureInput struct {
	Zone        string `json:"zone"`
	ProbeTarget string `json:"probe_target"` // e.g. http://example.com/
}

// CaptureOutput holds the stored snapshot.
type CaptureOutput struct {
	Snapshot *model.Snapshot `json:"snapshot"`
}

// NewID returns a timestamp-addressed snapshot identifier.
func NewID(now time.Time) string {
	return now.UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
}

// Capture reads the registrar's nameserver assignment, the full record
// list (disaster recovery wants everything, not just the managed scope),
// and one HTTP probe of the domain. A failed sub-capture is recorded as
// a warning rather than aborting: a partial snapshot before a risky
// operation beats none. Capture fails only when every sub-capture fails
// or the snapshot cannot be stored.
func (u *UseCase) Capture(ctx context.Context, in *CaptureInput) (*CaptureOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Zone == "" {
		return nil, &model.ValidationError{Msg: "zone is required"}
	}
	logger := logging.FromContext(ctx)

	snap := &model.Snapshot{
		SchemaVersion: model.SnapshotSchemaVersion,
		ID:            NewID(time.Now()),
		Timestamp:     time.Now().UTC(),
		Zone:          in.Zone,
	}

	ns, err := u.Registrar.Nameservers(ctx, in.Zone)
	if err != nil {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("nameservers: %v", err))
		logger.Warn(ctx, "snapshot: nameserver capture failed", "zone", in.Zone, "error", err)
	} else {
		snap.Nameservers = ns
	}

	recs, err := u.Registrar.ListRecords(ctx, in.Zone)
	if err != nil {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("records: %v", err))
		logger.Warn(ctx, "snapshot: record capture failed", "zone", in.Zone, "error", err)
	} else {
		snap.Records = recs
	}

	if in.ProbeTarget != "" {
		probe, err := u.Prober.Probe(ctx, in.ProbeTarget)
		if err != nil {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("probe: %v", err))
			logger.Warn(ctx, "snapshot: HTTP probe failed", "target", in.ProbeTarget, "error", err)
		} else {
			snap.Probe = probe
		}
	}

	if snap.Nameservers == nil && snap.Records == nil && snap.Probe == nil {
		return nil, fmt.Errorf("snapshot capture produced no state for %s", in.Zone)
	}

	if err := u.Repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	logger.Info(ctx, "snapshot stored", "id", snap.ID, "zone", in.Zone, "partial", snap.Partial())
	return &CaptureOutput{Snapshot: snap}, nil
}
