package filestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
)

func testSnapshot(id string, ts time.Time) *model.Snapshot {
	return &model.Snapshot{
		SchemaVersion: model.SnapshotSchemaVersion,
		ID:            id,
		Timestamp:     ts,
		Zone:          "example.com",
		Nameservers:   []string{"dns1.registrar.invalid", "dns2.registrar.invalid"},
		Records: model.RecordSet{
			{Name: "@", Type: model.RecordTypeA, Value: "162.255.119.15", TTL: 1800},
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	snap := testSnapshot("20260830T120000Z-abcd1234", time.Now().UTC().Truncate(time.Second))

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := store.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.SchemaVersion != model.SnapshotSchemaVersion {
		t.Errorf("SchemaVersion = %s, want %s", got.SchemaVersion, model.SnapshotSchemaVersion)
	}
	if got.Zone != snap.Zone || len(got.Nameservers) != 2 || len(got.Records) != 1 {
		t.Errorf("round-tripped snapshot = %+v, want %+v", got, snap)
	}
	if got.Records[0] != snap.Records[0] {
		t.Errorf("record = %+v, want %+v", got.Records[0], snap.Records[0])
	}
}

func TestStore_SaveRefusesOverwrite(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	snap := testSnapshot("20260830T120000Z-abcd1234", time.Now())

	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, snap); err == nil {
		t.Errorf("Save should refuse to overwrite an existing snapshot")
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = store.Get(context.Background(), "missing")
	if !errors.Is(err, model.ErrSnapshotNotFound) {
		t.Errorf("Get error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"older", "newer", "newest"} {
		if err := store.Save(ctx, testSnapshot(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save %s returned error: %v", id, err)
		}
	}

	snaps, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("List returned %d snapshots, want 3", len(snaps))
	}
	want := []string{"newest", "newer", "older"}
	for i, w := range want {
		if snaps[i].ID != w {
			t.Errorf("snaps[%d].ID = %s, want %s", i, snaps[i].ID, w)
		}
	}
}
