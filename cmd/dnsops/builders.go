package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	providerdrv "github.com/northroot-labs/dnsops/adapters/drivers/provider"
	"github.com/northroot-labs/dnsops/adapters/store/filestore"
	"github.com/northroot-labs/dnsops/adapters/store/rdb"
	"github.com/northroot-labs/dnsops/config/dnsopscfg"
	"github.com/northroot-labs/dnsops/domain"
	"github.com/northroot-labs/dnsops/internal/httpprobe"
	"github.com/northroot-labs/dnsops/internal/resolver"
	"github.com/northroot-labs/dnsops/usecase/cutover"
	"github.com/northroot-labs/dnsops/usecase/records"
	"github.com/northroot-labs/dnsops/usecase/snapshot"
	"github.com/northroot-labs/dnsops/usecase/verify"
)

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	if f := findFlag(cmd, name); f != nil {
		return f.Value.String()
	}
	return ""
}

// loadConfig loads and validates dnsops.yml, applying the --domain
// override. Configuration problems map to exit code 2.
func loadConfig(cmd *cobra.Command) (*dnsopscfg.Root, error) {
	path := flagString(cmd, "config")
	cfg, err := dnsopscfg.Load(path)
	if err != nil {
		return nil, ExitCodeError{Code: 2, Err: err}
	}
	if d := flagString(cmd, "domain"); d != "" {
		cfg.Domain = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, ExitCodeError{Code: 2, Err: fmt.Errorf("invalid configuration %s: %w", path, err)}
	}
	return cfg, nil
}

// getSnapshotURL resolves the snapshot store URL: flag, then env, then
// config, then a file store next to the working directory.
func getSnapshotURL(cmd *cobra.Command, cfg *dnsopscfg.Root) string {
	if v := flagString(cmd, "snapshot-url"); v != "" {
		return v
	}
	if v := os.Getenv("DNSOPS_SNAPSHOT_URL"); v != "" {
		return v
	}
	if cfg != nil && cfg.Snapshots.URL != "" {
		return cfg.Snapshots.URL
	}
	return "file:./snapshots"
}

// buildSnapshotRepo creates the snapshot repository based on the URL
// scheme: file:<dir> or sqlite:<dsn>.
func buildSnapshotRepo(cmd *cobra.Command, cfg *dnsopscfg.Root) (domain.SnapshotRepository, error) {
	u := getSnapshotURL(cmd, cfg)
	switch {
	case strings.HasPrefix(u, "file:"):
		dir := strings.TrimPrefix(u, "file:")
		store, err := filestore.New(dir)
		if err != nil {
			return nil, ExitCodeError{Code: 2, Err: err}
		}
		return store, nil
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "sqlite3:"):
		db, err := rdb.OpenFromURL(u)
		if err != nil {
			return nil, ExitCodeError{Code: 2, Err: err}
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate snapshot store: %w", err)
		}
		return rdb.NewSnapshotRepository(db), nil
	default:
		return nil, ExitCodeError{Code: 2, Err: fmt.Errorf("unsupported snapshot store scheme: %s", u)}
	}
}

// buildDriver builds one provider driver from its configuration.
func buildDriver(p dnsopscfg.Provider) (providerdrv.Driver, error) {
	factory, ok := providerdrv.GetDriverFactory(p.Driver)
	if !ok {
		return nil, ExitCodeError{Code: 2, Err: fmt.Errorf("unknown provider driver: %s", p.Driver)}
	}
	drv, err := factory(dnsopscfg.ResolveSettings(p.Settings))
	if err != nil {
		return nil, ExitCodeError{Code: 2, Err: fmt.Errorf("build %s driver: %w", p.Driver, err)}
	}
	return drv, nil
}

func buildRecordsUseCase(cfg *dnsopscfg.Root) (*records.UseCase, error) {
	drv, err := buildDriver(cfg.DNS)
	if err != nil {
		return nil, err
	}
	return &records.UseCase{Driver: drv}, nil
}

func buildSnapshotUseCase(cmd *cobra.Command, cfg *dnsopscfg.Root) (*snapshot.UseCase, error) {
	registrar, err := buildDriver(cfg.Registrar)
	if err != nil {
		return nil, err
	}
	repo, err := buildSnapshotRepo(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return &snapshot.UseCase{
		Registrar: registrar,
		Prober:    httpprobe.New(0),
		Repo:      repo,
	}, nil
}

func buildVerifyUseCase(cfg *dnsopscfg.Root) *verify.UseCase {
	return &verify.UseCase{
		Reader: resolver.New(cfg.Verify.Resolver),
		Prober: httpprobe.New(0),
	}
}

func buildCutoverUseCase(cmd *cobra.Command, cfg *dnsopscfg.Root) (*cutover.UseCase, error) {
	registrar, err := buildDriver(cfg.Registrar)
	if err != nil {
		return nil, err
	}
	secondary, err := buildDriver(cfg.DNS)
	if err != nil {
		return nil, err
	}
	snapUC, err := buildSnapshotUseCase(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return &cutover.UseCase{
		Registrar: registrar,
		Secondary: secondary,
		Snapshots: snapUC,
		Records:   &records.UseCase{Driver: secondary},
		Verifier:  buildVerifyUseCase(cfg),
	}, nil
}

// cmdTimeout bounds one CLI invocation.
const cmdTimeout = 30 * time.Minute
