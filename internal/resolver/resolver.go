// Package resolver reads observed DNS state from a recursive resolver.
// This is the propagation-facing view: what the world resolves, as
// opposed to what a provider API claims to serve.
package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/northroot-labs/dnsops/domain/model"
)

const defaultAddr = "1.1.1.1:53"

// Resolver issues DNS queries against one recursive resolver address.
type Resolver struct {
	addr   string
	client *dns.Client
}

// New returns a Resolver for addr ("host" or "host:port"; empty means
// 1.1.1.1:53).
func New(addr string) *Resolver {
	if addr == "" {
		addr = defaultAddr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}
	return &Resolver{
		addr:   addr,
		client: &dns.Client{Timeout: 5 * time.Second},
	}
}

// Addr returns the resolver address in host:port form.
func (r *Resolver) Addr() string { return r.addr }

func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true
	resp, _, err := r.client.ExchangeContext(ctx, m, r.addr)
	if err != nil {
		return nil, fmt.Errorf("query %s %s @%s: %w", dns.TypeToString[qtype], name, r.addr, err)
	}
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("query %s %s @%s: rcode %s", dns.TypeToString[qtype], name, r.addr, dns.RcodeToString[resp.Rcode])
	}
	return resp.Answer, nil
}

// Nameservers returns the NS set for the domain, sorted and normalized.
func (r *Resolver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	answers, err := r.query(ctx, domain, dns.TypeNS)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, rr := range answers {
		if ns, ok := rr.(*dns.NS); ok {
			out = append(out, NormalizeName(ns.Ns))
		}
	}
	return out, nil
}

// Records resolves the observed values for every (name, type) key in
// scope and returns them as a zone-relative record set.
func (r *Resolver) Records(ctx context.Context, zone string, scope []model.Key) (model.RecordSet, error) {
	var raw []model.Record
	for _, k := range scope {
		fqdn := k.Name
		if fqdn == "@" || fqdn == "" {
			fqdn = zone
		} else if !strings.HasSuffix(fqdn, ".") && !strings.Contains(fqdn, zone) {
			fqdn = fqdn + "." + zone
		}
		qtype, ok := queryType(k.Type)
		if !ok {
			continue
		}
		answers, err := r.query(ctx, fqdn, qtype)
		if err != nil {
			return nil, err
		}
		for _, rr := range answers {
			value, rtype, ok := RRValue(rr)
			if !ok || rtype != k.Type {
				// CNAME chains surface extra answer records; keep only
				// the queried type.
				continue
			}
			raw = append(raw, model.Record{Name: k.Name, Type: k.Type, Value: value, TTL: rr.Header().Ttl})
		}
	}
	return model.NormalizeRecords(raw, zone)
}

// RRValue extracts the presentation value and model type of an answer RR.
func RRValue(rr dns.RR) (string, model.RecordType, bool) {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String(), model.RecordTypeA, true
	case *dns.AAAA:
		return v.AAAA.String(), model.RecordTypeAAAA, true
	case *dns.CNAME:
		return NormalizeName(v.Target), model.RecordTypeCNAME, true
	case *dns.NS:
		return NormalizeName(v.Ns), model.RecordTypeNS, true
	case *dns.TXT:
		return strings.Join(v.Txt, ""), model.RecordTypeTXT, true
	case *dns.MX:
		return NormalizeName(v.Mx), model.RecordTypeMX, true
	}
	return "", "", false
}

// NormalizeName lower-cases a DNS name and strips the trailing dot.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

func queryType(t model.RecordType) (uint16, bool) {
	switch t {
	case model.RecordTypeA:
		return dns.TypeA, true
	case model.RecordTypeAAAA:
		return dns.TypeAAAA, true
	case model.RecordTypeCNAME:
		return dns.TypeCNAME, true
	case model.RecordTypeNS:
		return dns.TypeNS, true
	case model.RecordTypeTXT:
		return dns.TypeTXT, true
	case model.RecordTypeMX:
		return dns.TypeMX, true
	}
	return 0, false
}
