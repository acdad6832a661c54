package model

import "strings"

// ForwardingSignature recognizes registrar forwarding/parking responses in
// an HTTP probe. The exact header name and marker strings are provider
// specific, so the signature is configuration, not a hard-coded check.
type ForwardingSignature struct {
	// Header restricts matching to one response header. Empty means any
	// recorded header plus the Location value.
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	// Contains are case-insensitive substrings; any single match counts.
	Contains []string `json:"contains,omitempty" yaml:"contains,omitempty"`
}

// DefaultForwardingSignature matches the Namecheap URL forwarding and
// generic parking markers.
func DefaultForwardingSignature() ForwardingSignature {
	return ForwardingSignature{Contains: []string{"namecheap url forward", "parking"}}
}

// Matches reports whether the probe exhibits the forwarding signature.
// A nil probe never matches.
func (s ForwardingSignature) Matches(p *HTTPProbe) bool {
	if p == nil || len(s.Contains) == 0 {
		return false
	}
	var haystacks []string
	if s.Header != "" {
		haystacks = append(haystacks, p.Headers[strings.ToLower(s.Header)])
	} else {
		for _, v := range p.Headers {
			haystacks = append(haystacks, v)
		}
		haystacks = append(haystacks, p.Location, p.Server)
	}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		lower := strings.ToLower(h)
		for _, want := range s.Contains {
			if strings.Contains(lower, strings.ToLower(want)) {
				return true
			}
		}
	}
	return false
}
