// Package app assembles the ledger from configuration. Both the API server
// and ledgerctl build their object graph through it.
package app

import (
	"context"
	"fmt"

	"mexared-ledger/config"
	"mexared-ledger/internal/adapter/storage/memory"
	pgStorage "mexared-ledger/internal/adapter/storage/postgres"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/migrations"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Storage groups the repositories of one backend.
type Storage struct {
	Wallets    ports.WalletRepository
	Ledger     ports.LedgerRepository
	Margins    ports.MarginRepository
	Incidents  ports.IncidentRepository
	Hierarchy  ports.HierarchyRepository
	Transactor ports.DBTransactor
	Health     ports.HealthChecker

	// Memory is set only for the memory driver.
	Memory *memory.Store

	close func()
}

// Close releases the backend's connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the configured backend. With migrate set, the
// PostgreSQL schema is brought up to date first.
func OpenStorage(ctx context.Context, cfg *config.Config, migrate bool, log zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case DriverPostgres, "":
		return openPostgres(ctx, cfg, migrate, log)
	case DriverMemory:
		return openMemory(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, migrate bool, log zerolog.Logger) (*Storage, error) {
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if migrate {
		if _, err := pgStorage.Migrate(ctx, pool, migrations.FS, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Storage{
		Wallets:    pgStorage.NewWalletRepo(pool),
		Ledger:     pgStorage.NewLedgerRepo(pool),
		Margins:    pgStorage.NewMarginRepo(pool),
		Incidents:  pgStorage.NewIncidentRepo(pool),
		Hierarchy:  pgStorage.NewHierarchyRepo(pool),
		Transactor: pgStorage.NewTransactor(pool, cfg.Ledger.LockTimeout),
		Health:     pgStorage.NewHealthCheck(pool),
		close:      pool.Close,
	}, nil
}

func openMemory(cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	store := memory.New(memory.WithLockTimeout(cfg.Ledger.LockTimeout))

	if cfg.Storage.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.Storage.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := ApplySeed(store, seed); err != nil {
			return nil, err
		}
		log.Info().
			Str("seed_file", cfg.Storage.SeedFile).
			Int("actors", len(seed.Actors)).
			Msg("Memory store seeded")
	} else {
		log.Warn().Msg("Memory store started without a seed file; no actors are known")
	}

	return &Storage{
		Wallets:    memory.NewWalletRepo(store),
		Ledger:     memory.NewLedgerRepo(store),
		Margins:    memory.NewMarginRepo(store),
		Incidents:  memory.NewIncidentRepo(store),
		Hierarchy:  memory.NewHierarchyRepo(store),
		Transactor: memory.NewTransactor(store),
		Health:     memory.NewHealthCheck(),
		Memory:     store,
	}, nil
}

// ApplySeed registers every actor, then links children to their parents.
func ApplySeed(store *memory.Store, seed *config.Seed) error {
	type link struct{ parent, child uuid.UUID }
	var links []link

	for _, a := range seed.Actors {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return fmt.Errorf("seed actor %q: %w", a.ID, err)
		}
		role := domain.Role(a.Role)
		if !role.Valid() {
			return fmt.Errorf("seed actor %s: unknown role %q", id, a.Role)
		}
		store.AddActor(domain.Actor{ID: id, Name: a.Name, Role: role, Active: a.IsActive()})

		if a.Parent == "" {
			continue
		}
		parent, err := uuid.Parse(a.Parent)
		if err != nil {
			return fmt.Errorf("seed actor %s parent: %w", id, err)
		}
		links = append(links, link{parent: parent, child: id})
	}

	for _, l := range links {
		if err := store.Link(l.parent, l.child); err != nil {
			return fmt.Errorf("linking %s to %s: %w", l.child, l.parent, err)
		}
	}
	return nil
}
