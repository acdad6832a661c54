package snapshot

import (
	"context"
	"fmt"

	"github.com/northroot-labs/dnsops/domain/model"
)

// ListOutput holds stored snapshots, newest first.
type ListOutput struct {
	Snapshots []*model.Snapshot `json:"snapshots"`
}

// List returns all stored snapshots, newest first.
func (u *UseCase) List(ctx context.Context) (*ListOutput, error) {
	snaps, err := u.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return &ListOutput{Snapshots: snaps}, nil
}

// Get returns one stored snapshot by ID.
func (u *UseCase) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, &model.ValidationError{Msg: "snapshot ID is required"}
	}
	return u.Repo.Get(ctx, id)
}
