package domain

import (
	"context"

	"github.com/northroot-labs/dnsops/domain/model"
)

// SnapshotRepository stores and retrieves immutable snapshot documents.
// Implementations must never mutate a stored snapshot.
type SnapshotRepository interface {
	Save(ctx context.Context, s *model.Snapshot) error
	Get(ctx context.Context, id string) (*model.Snapshot, error)
	List(ctx context.Context) ([]*model.Snapshot, error)
}
