// Package filestore persists snapshots as one JSON document per file in
// a directory. The documents carry their schema version and are meant to
// be loadable by rollback tooling without this process.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/northroot-labs/dnsops/domain"
	"github.com/northroot-labs/dnsops/domain/model"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	if _, err := os.Stat(s.path(snap.ID)); err == nil {
		return fmt.Errorf("snapshot %s already exists", snap.ID)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(snap.ID), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snap.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

func (s *Store) List(ctx context.Context) ([]*model.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var out []*model.Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		snap, err := s.Get(ctx, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

var _ domain.SnapshotRepository = (*Store)(nil)
