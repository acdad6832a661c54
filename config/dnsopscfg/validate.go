package dnsopscfg

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs semantic validation on the configuration tree.
func (r *Root) Validate() error {
	if r.Version != "" && r.Version != "v1" {
		return fmt.Errorf("version: unsupported value %q", r.Version)
	}
	if strings.TrimSpace(r.Domain) == "" {
		return fmt.Errorf("domain is required")
	}
	if !strings.Contains(r.Domain, ".") {
		return fmt.Errorf("domain: %q is not a valid domain", r.Domain)
	}
	if r.Registrar.Driver == "" {
		return fmt.Errorf("registrar.driver is required")
	}
	if r.DNS.Driver == "" {
		return fmt.Errorf("dns.driver is required")
	}
	if err := r.Records.validate(); err != nil {
		return fmt.Errorf("records: %w", err)
	}
	if err := r.Verify.validate(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

func (rc *Records) validate() error {
	if len(rc.Desired) == 0 {
		return fmt.Errorf("desired must not be empty")
	}
	if len(rc.Managed) == 0 {
		return fmt.Errorf("managed must not be empty")
	}
	for i, rec := range rc.Desired {
		if rec.Name == "" || rec.Type == "" || rec.Value == "" {
			return fmt.Errorf("desired[%d]: name, type and value are required", i)
		}
	}
	for i, k := range rc.Managed {
		if k.Name == "" || k.Type == "" {
			return fmt.Errorf("managed[%d]: name and type are required", i)
		}
	}
	return nil
}

func (v *Verify) validate() error {
	if v.Attempts < 0 {
		return fmt.Errorf("attempts must not be negative")
	}
	if v.Interval != "" {
		if _, err := time.ParseDuration(v.Interval); err != nil {
			return fmt.Errorf("interval: %w", err)
		}
	}
	return nil
}
