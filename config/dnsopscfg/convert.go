package dnsopscfg

import (
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
)

const (
	defaultVerifyAttempts = 30
	defaultVerifyInterval = 10 * time.Second
)

// DesiredRecordSet converts the declared records to a normalized model
// record set.
func (r *Root) DesiredRecordSet() (model.RecordSet, error) {
	raw := make([]model.Record, 0, len(r.Records.Desired))
	for _, rec := range r.Records.Desired {
		raw = append(raw, model.Record{
			Name:  rec.Name,
			Type:  model.RecordType(rec.Type),
			Value: rec.Value,
			TTL:   rec.TTL,
		})
	}
	return model.NormalizeRecords(raw, r.Domain)
}

// ManagedScope converts the managed allowlist to model keys.
func (r *Root) ManagedScope() []model.Key {
	out := make([]model.Key, 0, len(r.Records.Managed))
	for _, k := range r.Records.Managed {
		n := model.NormalizeRecord(model.Record{Name: k.Name, Type: model.RecordType(k.Type), Value: "-"}, r.Domain)
		out = append(out, model.Key{Name: n.Name, Type: n.Type})
	}
	return out
}

// ForwardingSignature returns the configured forwarding/parking signature,
// or the default one when unset.
func (r *Root) ForwardingSignature() model.ForwardingSignature {
	f := r.Verify.Forwarding
	if f.Header == "" && len(f.Contains) == 0 {
		return model.DefaultForwardingSignature()
	}
	return model.ForwardingSignature{Header: f.Header, Contains: f.Contains}
}

// VerifyAttempts returns the attempt budget with its default applied.
func (r *Root) VerifyAttempts() int {
	if r.Verify.Attempts <= 0 {
		return defaultVerifyAttempts
	}
	return r.Verify.Attempts
}

// VerifyInterval returns the polling interval with its default applied.
// Validate has already checked the duration syntax.
func (r *Root) VerifyInterval() time.Duration {
	if r.Verify.Interval == "" {
		return defaultVerifyInterval
	}
	d, err := time.ParseDuration(r.Verify.Interval)
	if err != nil || d <= 0 {
		return defaultVerifyInterval
	}
	return d
}

// ProbeTarget returns the probe URL, defaulting to http://<domain>/.
func (r *Root) ProbeTarget() string {
	if r.Verify.Probe != "" {
		return r.Verify.Probe
	}
	return "http://" + r.Domain + "/"
}
