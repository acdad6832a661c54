package cutover

import (
	"context"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
	"github.com/northroot-labs/dnsops/usecase/records"
	"github.com/northroot-labs/dnsops/usecase/snapshot"
	"github.com/northroot-labs/dnsops/usecase/verify"
)

// Snapshotter captures and loads snapshots.
type Snapshotter interface {
	Capture(ctx context.Context, in *snapshot.CaptureInput) (*snapshot.CaptureOutput, error)
	Get(ctx context.Context, id string) (*model.Snapshot, error)
}

// Applier reconciles records against the secondary provider.
type Applier interface {
	Plan(ctx context.Context, in *records.PlanInput) (*records.PlanOutput, error)
	Apply(ctx context.Context, in *records.ApplyInput) (*records.ApplyOutput, error)
}

// Verifier polls observed state against an expectation.
type Verifier interface {
	Verify(ctx context.Context, in *verify.Input) (*verify.Output, error)
}

// UseCase orchestrates the cutover state machine. Registrar holds the
// current authority (nameserver assignment); Secondary is the provider
// authority moves to, and the Applier must be bound to it.
type UseCase struct {
	Registrar model.ProviderPort
	Secondary model.ProviderPort
	Snapshots Snapshotter
	Records   Applier
	Verifier  Verifier
}

// RunInput holds parameters for one cutover run.
type RunInput struct {
	Zone        string          `json:"zone"`
	ProbeTarget string          `json:"probe_target,omitempty"`
	Desired     model.RecordSet `json:"desired"`
	Scope       []model.Key     `json:"scope"`
	TTLStrict   bool            `json:"ttl_strict,omitempty"`
	// TargetNameservers is the secondary provider's nameserver set. Empty
	// means read it from the secondary provider.
	TargetNameservers []string `json:"target_nameservers,omitempty"`
	// CreateZone creates the zone on the secondary provider when missing
	// (precondition, checked before the state machine starts).
	CreateZone bool `json:"create_zone,omitempty"`
	DryRun     bool `json:"dry_run,omitempty"`

	MaxAttempts int                       `json:"max_attempts,omitempty"`
	Interval    time.Duration             `json:"interval,omitempty"`
	Signature   model.ForwardingSignature `json:"signature,omitempty"`
}

// Step records one externally visible action of a run.
type Step struct {
	State  State  `json:"state"`
	Detail string `json:"detail"`
}

// Report is the structured audit record of a run. Every terminal state,
// including fatal halts, carries the snapshot identifier so an operator
// can complete recovery manually.
type Report struct {
	RunID        string               `json:"run_id"`
	Zone         string               `json:"zone"`
	SnapshotID   string               `json:"snapshot_id,omitempty"`
	FinalState   State                `json:"final_state"`
	Steps        []Step               `json:"steps"`
	Parity       *records.ApplyOutput `json:"parity,omitempty"`
	Verification *verify.Output       `json:"verification,omitempty"`
	Rollback     *verify.Output       `json:"rollback,omitempty"`
}

func (r *Report) step(detail string) {
	r.Steps = append(r.Steps, Step{State: r.FinalState, Detail: detail})
}
