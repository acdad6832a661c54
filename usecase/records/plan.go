package records

import (
	"context"
	"fmt"

	"github.com/northroot-labs/dnsops/domain/model"
)

// PlanInput holds parameters for plan computation.
type PlanInput struct {
	Zone      string          `json:"zone"`
	Desired   model.RecordSet `json:"desired"`
	Scope     []model.Key     `json:"scope"`
	TTLStrict bool            `json:"ttl_strict,omitempty"`
}

// PlanOutput holds the computed plan and the live state it was computed
// against.
type PlanOutput struct {
	Plan *model.Plan     `json:"plan"`
	Live model.RecordSet `json:"live"`
}

// Plan reads the provider's live record set fresh and diffs it against
// the desired set within the managed scope.
func (u *UseCase) Plan(ctx context.Context, in *PlanInput) (*PlanOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Zone == "" {
		return nil, &model.ValidationError{Msg: "zone is required"}
	}

	live, err := u.Driver.ListRecords(ctx, in.Zone)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var opts []model.DiffOption
	if in.TTLStrict {
		opts = append(opts, model.WithDiffTTLStrict())
	}
	plan, err := model.Diff(in.Desired, live, in.Scope, opts...)
	if err != nil {
		return nil, err
	}
	return &PlanOutput{Plan: plan, Live: live}, nil
}
