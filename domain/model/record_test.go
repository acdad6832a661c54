package model

import (
	"errors"
	"testing"
)

func TestNormalizeRecord(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		zone string
		want Record
	}{
		{
			name: "zone-qualified name becomes relative",
			in:   Record{Name: "www.example.com", Type: RecordTypeA, Value: "1.2.3.4"},
			zone: "example.com",
			want: Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4"},
		},
		{
			name: "zone itself becomes apex",
			in:   Record{Name: "example.com", Type: RecordTypeA, Value: "1.2.3.4"},
			zone: "example.com",
			want: Record{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
		},
		{
			name: "empty name becomes apex",
			in:   Record{Name: "", Type: RecordTypeA, Value: "1.2.3.4"},
			zone: "example.com",
			want: Record{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
		},
		{
			name: "trailing dot and case are stripped",
			in:   Record{Name: "WWW.Example.COM.", Type: RecordTypeA, Value: "1.2.3.4"},
			zone: "example.com.",
			want: Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4"},
		},
		{
			name: "CNAME value is normalized like a name",
			in:   Record{Name: "www", Type: RecordTypeCNAME, Value: "Example.GitHub.IO."},
			zone: "example.com",
			want: Record{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
		},
		{
			name: "TXT value is left untouched",
			in:   Record{Name: "@", Type: RecordTypeTXT, Value: "V=spf1 -ALL."},
			zone: "example.com",
			want: Record{Name: "@", Type: RecordTypeTXT, Value: "V=spf1 -ALL."},
		},
		{
			name: "TTL is preserved",
			in:   Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4", TTL: 300},
			zone: "example.com",
			want: Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4", TTL: 300},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRecord(tt.in, tt.zone)
			if got != tt.want {
				t.Errorf("NormalizeRecord() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRecords_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      []Record
		wantErr bool
	}{
		{
			name: "valid set",
			in: []Record{
				{Name: "@", Type: RecordTypeA, Value: "185.199.108.153"},
				{Name: "@", Type: RecordTypeA, Value: "185.199.109.153"},
				{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
			},
		},
		{
			name: "unknown type",
			in: []Record{
				{Name: "@", Type: RecordType("ALIAS"), Value: "example.com"},
			},
			wantErr: true,
		},
		{
			name: "empty value",
			in: []Record{
				{Name: "www", Type: RecordTypeA, Value: ""},
			},
			wantErr: true,
		},
		{
			name: "duplicate tuple",
			in: []Record{
				{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
				{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
			},
			wantErr: true,
		},
		{
			name: "conflicting CNAME values",
			in: []Record{
				{Name: "www", Type: RecordTypeCNAME, Value: "a.example.net"},
				{Name: "www", Type: RecordTypeCNAME, Value: "b.example.net"},
			},
			wantErr: true,
		},
		{
			name: "multiple A values under one name are fine",
			in: []Record{
				{Name: "@", Type: RecordTypeA, Value: "185.199.108.153"},
				{Name: "@", Type: RecordTypeA, Value: "185.199.109.153"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRecords(tt.in, "example.com")
			if (err != nil) != tt.wantErr {
				t.Errorf("NormalizeRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("NormalizeRecords() error = %v, want *ValidationError", err)
				}
			}
		})
	}
}

func TestNormalizeRecords_Sorted(t *testing.T) {
	rs, err := NormalizeRecords([]Record{
		{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
		{Name: "@", Type: RecordTypeA, Value: "185.199.109.153"},
		{Name: "@", Type: RecordTypeA, Value: "185.199.108.153"},
	}, "example.com")
	if err != nil {
		t.Fatalf("NormalizeRecords returned error: %v", err)
	}
	want := RecordSet{
		{Name: "@", Type: RecordTypeA, Value: "185.199.108.153"},
		{Name: "@", Type: RecordTypeA, Value: "185.199.109.153"},
		{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
	}
	if len(rs) != len(want) {
		t.Fatalf("got %d records, want %d", len(rs), len(want))
	}
	for i := range want {
		if rs[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rs[i], want[i])
		}
	}
}

func TestRecordsEqual_TTL(t *testing.T) {
	a := Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4", TTL: 300}
	b := Record{Name: "www", Type: RecordTypeA, Value: "1.2.3.4", TTL: 1800}
	if !RecordsEqual(a, b, false) {
		t.Errorf("records should be equal when TTL is not strict")
	}
	if RecordsEqual(a, b, true) {
		t.Errorf("records should differ when TTL is strict")
	}
}

func TestRecordSet_Restrict(t *testing.T) {
	rs := RecordSet{
		{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
		{Name: "@", Type: RecordTypeMX, Value: "mail.example.net"},
		{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
	}
	scope := []Key{
		{Name: "@", Type: RecordTypeA},
		{Name: "www", Type: RecordTypeCNAME},
	}
	got := rs.Restrict(scope)
	if len(got) != 2 {
		t.Fatalf("Restrict returned %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Type == RecordTypeMX {
			t.Errorf("MX record should be outside the managed scope")
		}
	}
}

func TestRecordSet_Equal(t *testing.T) {
	a := RecordSet{
		{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
		{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
	}
	b := RecordSet{
		{Name: "www", Type: RecordTypeCNAME, Value: "example.github.io"},
		{Name: "@", Type: RecordTypeA, Value: "1.2.3.4"},
	}
	if !a.Equal(b, false) {
		t.Errorf("sets with the same records in different order should be equal")
	}
	c := append(RecordSet(nil), a...)
	c[0].Value = "5.6.7.8"
	if a.Equal(c, false) {
		t.Errorf("sets with different values should not be equal")
	}
}
