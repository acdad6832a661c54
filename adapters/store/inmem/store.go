// Package inmem provides an in-memory SnapshotRepository, used by tests
// and dry runs.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/northroot-labs/dnsops/domain"
	"github.com/northroot-labs/dnsops/domain/model"
)

type Store struct {
	mu    sync.RWMutex
	snaps map[string]*model.Snapshot
}

func NewStore() *Store {
	return &Store{snaps: map[string]*model.Snapshot{}}
}

func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[snap.ID]; ok {
		return fmt.Errorf("snapshot %s already exists", snap.ID)
	}
	cp := *snap
	s.snaps[snap.ID] = &cp
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[id]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	cp := *snap
	return &cp, nil
}

func (s *Store) List(ctx context.Context) ([]*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Snapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		cp := *snap
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

var _ domain.SnapshotRepository = (*Store)(nil)
