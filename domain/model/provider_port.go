package model

import "context"

// ProviderPort is the capability interface the controller uses to talk to
// a DNS provider. Two provider roles exist (registrar DNS and secondary
// DNS host) but the core never branches on provider identity; the role is
// purely which port a use case is handed.
type ProviderPort interface {
	// ID returns the provider identifier (e.g., "cloudflare").
	ID() string

	// ListRecords returns all records of the zone, normalized to
	// zone-relative names. The full set, not just the managed scope.
	ListRecords(ctx context.Context, zone string) (RecordSet, error)

	// CreateRecord adds one record to the zone.
	CreateRecord(ctx context.Context, zone string, rec Record) error

	// UpdateRecord replaces the value/TTL of an existing record with the
	// same (name, type) identity.
	UpdateRecord(ctx context.Context, zone string, rec Record) error

	// DeleteRecord removes one record, matched by (name, type, value).
	DeleteRecord(ctx context.Context, zone string, rec Record) error

	// Nameservers returns the authoritative nameserver assignment for the
	// domain as the provider reports it.
	Nameservers(ctx context.Context, domain string) ([]string, error)

	// SetNameservers updates the registrar-level nameserver assignment.
	// Non-registrar providers return ErrNotSupported.
	SetNameservers(ctx context.Context, domain string, nameservers []string) error
}

// ZoneCreator is an optional provider capability: create a hosted zone
// for a domain and return the nameservers assigned to it.
type ZoneCreator interface {
	CreateZone(ctx context.Context, domain string) ([]string, error)
}
