// Package dnsopscfg defines the configuration schema (structs) for
// dnsops.yml. This package is intended for YAML -> struct
// deserialization; loading and validation live in separate files.
package dnsopscfg

// Root is the root structure of dnsops.yml.
type Root struct {
	Version   string    `yaml:"version"`
	Domain    string    `yaml:"domain"`
	Registrar Provider  `yaml:"registrar"`
	DNS       Provider  `yaml:"dns"`
	Records   Records   `yaml:"records"`
	Verify    Verify    `yaml:"verify"`
	Snapshots Snapshots `yaml:"snapshots"`
}

// Provider selects a provider driver and its settings. Setting values may
// use "env:NAME" indirection, resolved when the driver is built so
// secrets never live in the file.
type Provider struct {
	Name     string            `yaml:"name"`
	Driver   string            `yaml:"driver"`
	Settings map[string]string `yaml:"settings"`
}

// Records declares the desired record set and the managed scope.
type Records struct {
	Desired   []Record `yaml:"desired"`
	Managed   []Key    `yaml:"managed"`
	TTLStrict bool     `yaml:"ttl_strict"` // TTL participates in diff equality
}

// Record is one desired record. Name is zone-relative, "@" for apex.
type Record struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
	TTL   uint32 `yaml:"ttl"`
}

// Key is one managed-scope entry.
type Key struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Verify configures the post-change verification budget and probes.
type Verify struct {
	Attempts   int        `yaml:"attempts"` // default 30
	Interval   string     `yaml:"interval"` // Go duration, default "10s"
	Resolver   string     `yaml:"resolver"` // host[:port], default 1.1.1.1:53
	Probe      string     `yaml:"probe"`    // probe URL, default http://<domain>/
	Forwarding Forwarding `yaml:"forwarding"`
}

// Forwarding describes the provider-specific forwarding/parking signature.
type Forwarding struct {
	Header   string   `yaml:"header"`
	Contains []string `yaml:"contains"`
}

// Snapshots configures the snapshot store location.
type Snapshots struct {
	// URL selects the store: file:<dir> or sqlite:<dsn>.
	URL string `yaml:"url"`
}
