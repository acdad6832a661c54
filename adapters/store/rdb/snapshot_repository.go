package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/northroot-labs/dnsops/domain"
	"github.com/northroot-labs/dnsops/domain/model"
)

type SnapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository { return &SnapshotRepository{db: db} }

func snapshotToRecord(s *model.Snapshot) (*SnapshotRecord, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return &SnapshotRecord{ID: s.ID, Zone: s.Zone, CreatedAt: s.Timestamp, Document: doc}, nil
}

func snapshotToModel(r *SnapshotRecord) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := json.Unmarshal(r.Document, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.ID, err)
	}
	return &s, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, s *model.Snapshot) error {
	if s.ID == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	rec, err := snapshotToRecord(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *SnapshotRepository) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	var rec SnapshotRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshotToModel(&rec)
}

func (r *SnapshotRepository) List(ctx context.Context) ([]*model.Snapshot, error) {
	var recs []SnapshotRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Snapshot, 0, len(recs))
	for i := range recs {
		s, err := snapshotToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)
