package model

import "time"

// SnapshotSchemaVersion is the schema version written into every new
// snapshot document. Rollback tooling must stay able to load documents
// produced by older controller versions, so the field exists from v1.
const SnapshotSchemaVersion = "v1"

// Snapshot is a point-in-time capture of a domain's authoritative state,
// taken before any risky operation. Immutable once stored.
type Snapshot struct {
	SchemaVersion string     `json:"schema_version"`
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	Zone          string     `json:"zone"`
	Nameservers   []string   `json:"nameservers,omitempty"`
	Records       RecordSet  `json:"records,omitempty"`
	Probe         *HTTPProbe `json:"probe,omitempty"`
	Warnings      []string   `json:"warnings,omitempty"`
}

// Partial reports whether any sub-capture failed when the snapshot was
// taken.
func (s *Snapshot) Partial() bool { return len(s.Warnings) > 0 }

// HTTPProbe records the response of one HTTP GET against the domain,
// used to detect registrar forwarding/parking behavior.
type HTTPProbe struct {
	StatusCode int               `json:"status_code"`
	Location   string            `json:"location,omitempty"`
	Server     string            `json:"server,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}
