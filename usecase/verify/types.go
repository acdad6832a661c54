package verify

import (
	"context"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
)

// StateReader reads observed DNS state (what the world resolves).
type StateReader interface {
	Nameservers(ctx context.Context, domain string) ([]string, error)
	Records(ctx context.Context, zone string, scope []model.Key) (model.RecordSet, error)
}

// Prober performs the HTTP probe used for forwarding detection.
type Prober interface {
	Probe(ctx context.Context, target string) (*model.HTTPProbe, error)
}

// UseCase provides application logic for post-change verification.
type UseCase struct {
	Reader StateReader
	Prober Prober
}

// Expectation is the partial state verification asserts against.
type Expectation struct {
	// Nameservers must match order-insensitively. Empty means unchecked.
	Nameservers []string `json:"nameservers,omitempty"`
	// Records are the expected managed records; Scope selects which
	// observed identities participate. Empty means unchecked.
	Records model.RecordSet `json:"records,omitempty"`
	Scope   []model.Key     `json:"scope,omitempty"`
	// ForwardingAbsent asserts the probe no longer shows the pre-cutover
	// forwarding signature.
	ForwardingAbsent bool                      `json:"forwarding_absent,omitempty"`
	Signature        model.ForwardingSignature `json:"signature,omitempty"`
	TTLStrict        bool                      `json:"ttl_strict,omitempty"`
}

// Input holds parameters for one verification run.
type Input struct {
	Zone        string        `json:"zone"`
	ProbeTarget string        `json:"probe_target,omitempty"`
	Expect      Expectation   `json:"expect"`
	MaxAttempts int           `json:"max_attempts"` // default 30
	Interval    time.Duration `json:"interval"`     // fixed delay, default 10s
}

// Observation is the state seen on the last attempt, with the mismatch
// reasons when it did not match.
type Observation struct {
	Nameservers []string         `json:"nameservers,omitempty"`
	Records     model.RecordSet  `json:"records,omitempty"`
	Probe       *model.HTTPProbe `json:"probe,omitempty"`
	Mismatches  []string         `json:"mismatches,omitempty"`
}

// Output is the verification outcome.
type Output struct {
	Matched  bool          `json:"matched"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
	Observed *Observation  `json:"observed,omitempty"`
}
