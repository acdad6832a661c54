package model

import (
	"fmt"
	"sort"
	"strings"
)

// RecordType represents provider-agnostic DNS record types.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeMX    RecordType = "MX"
	RecordTypeNS    RecordType = "NS"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
)

// knownRecordTypes lists the types the controller accepts in desired state.
var knownRecordTypes = map[RecordType]bool{
	RecordTypeA:     true,
	RecordTypeAAAA:  true,
	RecordTypeCNAME: true,
	RecordTypeTXT:   true,
	RecordTypeMX:    true,
	RecordTypeNS:    true,
	RecordTypeSRV:   true,
	RecordTypeCAA:   true,
}

// MultiValue reports whether multiple records of this type may coexist
// under one name. For such types each value is its own diff identity.
func (t RecordType) MultiValue() bool {
	switch t {
	case RecordTypeA, RecordTypeAAAA, RecordTypeNS, RecordTypeTXT, RecordTypeMX:
		return true
	}
	return false
}

// nameValued reports whether the record value is itself a DNS name and
// should be normalized like one (lower-cased, trailing dot stripped).
func (t RecordType) nameValued() bool {
	switch t {
	case RecordTypeCNAME, RecordTypeNS, RecordTypeMX:
		return true
	}
	return false
}

// Record is one DNS record, scoped to a zone. Name is relative to the
// zone; "@" denotes the apex.
type Record struct {
	Name  string     `json:"name" yaml:"name"`
	Type  RecordType `json:"type" yaml:"type"`
	Value string     `json:"value" yaml:"value"`
	TTL   uint32     `json:"ttl,omitempty" yaml:"ttl,omitempty"` // 0 means provider default
}

// Key identifies a record for managed-scope purposes.
type Key struct {
	Name string     `json:"name" yaml:"name"`
	Type RecordType `json:"type" yaml:"type"`
}

// Key returns the (name, type) identity of the record.
func (r Record) Key() Key { return Key{Name: r.Name, Type: r.Type} }

// identity is the diff identity: (name, type) for single-value types,
// (name, type, value) where multiple values may coexist.
func (r Record) identity() string {
	if r.Type.MultiValue() {
		return r.Name + "\x00" + string(r.Type) + "\x00" + r.Value
	}
	return r.Name + "\x00" + string(r.Type)
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s", r.Type, r.Name, r.Value)
}

// RecordSet is an order-irrelevant set of records scoped to one zone.
type RecordSet []Record

// NormalizeRecord returns the canonical form of a record: names lower-cased
// with trailing dots stripped, zone-qualified names reduced to relative
// form, "" mapped to "@", and name-valued record data normalized the same
// way. The zone may be empty when records are already relative.
func NormalizeRecord(r Record, zone string) Record {
	zone = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))
	name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(r.Name), "."))
	if zone != "" {
		if name == zone {
			name = "@"
		} else if strings.HasSuffix(name, "."+zone) {
			name = strings.TrimSuffix(name, "."+zone)
		}
	}
	if name == "" {
		name = "@"
	}
	value := strings.TrimSpace(r.Value)
	if r.Type.nameValued() {
		value = strings.ToLower(strings.TrimSuffix(value, "."))
	}
	return Record{Name: name, Type: r.Type, Value: value, TTL: r.TTL}
}

// NormalizeRecords canonicalizes every record and returns a
// deterministically sorted set. It fails with a ValidationError when a
// record is malformed or the set contains duplicate (name, type, value)
// tuples, or when a single-value type carries conflicting values.
func NormalizeRecords(records []Record, zone string) (RecordSet, error) {
	out := make(RecordSet, 0, len(records))
	seen := make(map[string]bool, len(records))
	single := make(map[string]string, len(records))
	for i, r := range records {
		n := NormalizeRecord(r, zone)
		if n.Name == "" || n.Value == "" {
			return nil, &ValidationError{Msg: fmt.Sprintf("record %d (%s): name and value are required", i, n)}
		}
		if !knownRecordTypes[n.Type] {
			return nil, &ValidationError{Msg: fmt.Sprintf("record %d (%s %s): unknown record type", i, n.Name, n.Type)}
		}
		tuple := n.Name + "\x00" + string(n.Type) + "\x00" + n.Value
		if seen[tuple] {
			return nil, &ValidationError{Msg: fmt.Sprintf("duplicate record %s", n)}
		}
		seen[tuple] = true
		if !n.Type.MultiValue() {
			key := n.Name + "\x00" + string(n.Type)
			if prev, ok := single[key]; ok && prev != n.Value {
				return nil, &ValidationError{Msg: fmt.Sprintf("%s %s: conflicting values %q and %q", n.Type, n.Name, prev, n.Value)}
			}
			single[key] = n.Value
		}
		out = append(out, n)
	}
	SortRecords(out)
	return out, nil
}

// SortRecords orders records by name, then type, then value.
func SortRecords(rs RecordSet) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Name != rs[j].Name {
			return rs[i].Name < rs[j].Name
		}
		if rs[i].Type != rs[j].Type {
			return rs[i].Type < rs[j].Type
		}
		return rs[i].Value < rs[j].Value
	})
}

// RecordsEqual compares two normalized records. TTL participates only
// when ttlStrict is set; providers commonly rewrite TTLs.
func RecordsEqual(a, b Record, ttlStrict bool) bool {
	if a.Name != b.Name || a.Type != b.Type || a.Value != b.Value {
		return false
	}
	if ttlStrict && a.TTL != b.TTL {
		return false
	}
	return true
}

// Restrict returns the subset of rs whose (name, type) identity is in scope.
func (rs RecordSet) Restrict(scope []Key) RecordSet {
	in := make(map[Key]bool, len(scope))
	for _, k := range scope {
		in[k] = true
	}
	out := make(RecordSet, 0, len(rs))
	for _, r := range rs {
		if in[r.Key()] {
			out = append(out, r)
		}
	}
	return out
}

// Equal reports whether two normalized sets contain the same records.
func (rs RecordSet) Equal(other RecordSet, ttlStrict bool) bool {
	if len(rs) != len(other) {
		return false
	}
	a := append(RecordSet(nil), rs...)
	b := append(RecordSet(nil), other...)
	SortRecords(a)
	SortRecords(b)
	for i := range a {
		if !RecordsEqual(a[i], b[i], ttlStrict) {
			return false
		}
	}
	return true
}
