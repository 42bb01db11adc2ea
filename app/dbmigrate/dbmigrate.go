// Package dbmigrate runs the per-module bun migrations and River's schema migrations.
package dbmigrate

import (
	"context"
	"fmt"

	leaguemigrations "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories/migrations"
	pickmigrations "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories/migrations"
	scoringmigrations "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories/migrations"
	tournamentmigrations "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is the bun migrator of one module.
type ModuleMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module in dependency order. Each module keeps
// its own migrations table so groups roll back per module.
func Migrators(db *bun.DB) []ModuleMigrator {
	sets := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"tournament", tournamentmigrations.Migrations},
		{"league", leaguemigrations.Migrations},
		{"pick", pickmigrations.Migrations},
		{"scoring", scoringmigrations.Migrations},
	}
	out := make([]ModuleMigrator, len(sets))
	for i, s := range sets {
		out[i] = ModuleMigrator{
			Name: s.name,
			Migrator: migrate.NewMigrator(db, s.migrations,
				migrate.WithTableName("bun_migrations_"+s.name),
				migrate.WithLocksTableName("bun_migration_locks_"+s.name),
			),
		}
	}
	return out
}

// Migrate applies pending migrations of one module under its lock.
func (m ModuleMigrator) Migrate(ctx context.Context) (*migrate.MigrationGroup, error) {
	if err := m.Migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s: %w", m.Name, err)
	}
	if err := m.Migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("lock %s: %w", m.Name, err)
	}
	defer m.Migrator.Unlock(ctx) //nolint:errcheck

	group, err := m.Migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", m.Name, err)
	}
	return group, nil
}

// MigrateRiver applies River's own schema and returns the applied versions.
func MigrateRiver(ctx context.Context, dsn string) ([]int, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate river: %w", err)
	}
	versions := make([]int, len(res.Versions))
	for i, v := range res.Versions {
		versions[i] = v.Version
	}
	return versions, nil
}

// Up applies every module's migrations, then River's.
func Up(ctx context.Context, db *bun.DB, dsn string) error {
	for _, m := range Migrators(db) {
		if _, err := m.Migrate(ctx); err != nil {
			return err
		}
	}
	_, err := MigrateRiver(ctx, dsn)
	return err
}
