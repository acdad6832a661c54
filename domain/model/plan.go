package model

import "fmt"

// Action is the kind of change a plan entry performs.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Plan is the minimal set of changes turning a live record set into the
// desired one. The three lists are disjoint and deterministically ordered
// (name, then type, then value) so identical inputs produce identical
// plans.
type Plan struct {
	Create RecordSet `json:"create"`
	Update RecordSet `json:"update"`
	Delete RecordSet `json:"delete"`
}

// Empty reports whether the plan contains no changes.
func (p *Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Size returns the total number of plan entries.
func (p *Plan) Size() int { return len(p.Create) + len(p.Update) + len(p.Delete) }

// Entries returns (action, record) pairs in apply order: creates and
// updates first, deletes last, each list in its deterministic order.
func (p *Plan) Entries() []PlanEntry {
	out := make([]PlanEntry, 0, p.Size())
	for _, r := range p.Create {
		out = append(out, PlanEntry{Action: ActionCreate, Record: r})
	}
	for _, r := range p.Update {
		out = append(out, PlanEntry{Action: ActionUpdate, Record: r})
	}
	for _, r := range p.Delete {
		out = append(out, PlanEntry{Action: ActionDelete, Record: r})
	}
	return out
}

// PlanEntry is one change in a plan.
type PlanEntry struct {
	Action Action `json:"action"`
	Record Record `json:"record"`
}

// Operation-scoped options for Diff.
type DiffOptions struct{ TTLStrict bool }

type DiffOption func(*DiffOptions)

// WithDiffTTLStrict makes TTL participate in record equality.
func WithDiffTTLStrict() DiffOption {
	return func(o *DiffOptions) { o.TTLStrict = true }
}

// Diff computes the plan turning live into desired within the managed
// scope. Records whose (name, type) is outside scope are invisible: they
// never appear in the plan and are never deleted. Desired records outside
// scope fail with a ValidationError before any comparison happens.
func Diff(desired, live RecordSet, scope []Key, opts ...DiffOption) (*Plan, error) {
	var o DiffOptions
	for _, opt := range opts {
		opt(&o)
	}

	scopeSet := make(map[Key]bool, len(scope))
	for _, k := range scope {
		scopeSet[k] = true
	}
	for _, r := range desired {
		if !scopeSet[r.Key()] {
			return nil, &ValidationError{Msg: fmt.Sprintf("desired record %s is outside the managed scope", r)}
		}
	}

	liveScoped := live.Restrict(scope)

	desiredByID := make(map[string]Record, len(desired))
	for _, r := range desired {
		desiredByID[r.identity()] = r
	}
	liveByID := make(map[string]Record, len(liveScoped))
	for _, r := range liveScoped {
		liveByID[r.identity()] = r
	}

	plan := &Plan{}
	for id, d := range desiredByID {
		l, ok := liveByID[id]
		if !ok {
			plan.Create = append(plan.Create, d)
			continue
		}
		if !RecordsEqual(d, l, o.TTLStrict) {
			plan.Update = append(plan.Update, d)
		}
	}
	for id, l := range liveByID {
		if _, ok := desiredByID[id]; !ok {
			plan.Delete = append(plan.Delete, l)
		}
	}

	SortRecords(plan.Create)
	SortRecords(plan.Update)
	SortRecords(plan.Delete)
	return plan, nil
}
