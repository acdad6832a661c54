package snapshot

import (
	"context"

	"github.com/northroot-labs/dnsops/domain"
	"github.com/northroot-labs/dnsops/domain/model"
)

// Prober performs the HTTP probe recorded into a snapshot.
type Prober interface {
	Probe(ctx context.Context, target string) (*model.HTTPProbe, error)
}

// UseCase provides application logic for snapshot operations.
type UseCase struct {
	Registrar model.ProviderPort
	Prober    Prober
	Repo      domain.SnapshotRepository
}
