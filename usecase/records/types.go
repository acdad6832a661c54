package records

import "github.com/northroot-labs/dnsops/domain/model"

// UseCase provides application logic for record reconciliation against
// one provider.
type UseCase struct {
	Driver model.ProviderPort
}

// RecordResult describes the outcome of one plan entry.
type RecordResult struct {
	Record  model.Record `json:"record"`
	Action  model.Action `json:"action"`
	Planned bool         `json:"planned,omitempty"` // dry-run entry, nothing executed
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
}
