// Package app wires configuration into the storage backends shared by the binaries.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leonid6372/stock-ledger/internal/common/config"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/common/repositories/memory"
	"github.com/leonid6372/stock-ledger/internal/common/repositories/postgres"
	"github.com/leonid6372/stock-ledger/migrations"
	"github.com/leonid6372/stock-ledger/pkg/goosemigrate"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

// OpenStore builds the configured store. The returned close func releases its
// resources and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (domain.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()

		if cfg.SeedFile != "" {
			seed, err := readSeed(cfg.SeedFile)
			if err != nil {
				return nil, nil, err
			}

			store.Seed(*seed)
			log.Info("memory store seeded",
				zap.Int("accounts", len(seed.Accounts)),
				zap.Int("stocks", len(seed.Stocks)),
			)
		}

		return store, func() {}, nil

	case config.StoragePostgres:
		if migrate {
			if err := NewMigrator(cfg).Up(); err != nil {
				return nil, nil, fmt.Errorf("migrations up: %w", err)
			}
		}

		poolCfg, err := pgxpool.ParseConfig(cfg.GetPostgresURL())
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
		}
		poolCfg.MaxConns = cfg.Postgres.MaxConns

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres ping: %w", err)
		}

		return postgres.NewStore(pool, cfg.Ledger.TxRetries), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func NewMigrator(cfg *config.Config) *goosemigrate.Migrator {
	return goosemigrate.NewMigrator(cfg.GetPostgresURL(), migrations.FS, migrations.Dir, postgres.Schema)
}

func readSeed(path string) (*memory.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed memory.Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	return &seed, nil
}
