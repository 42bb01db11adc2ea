package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app"
	"github.com/Black-And-White-Club/survivor-pool/app/dbmigrate"
	"github.com/Black-And-White-Club/survivor-pool/config"
	"github.com/Black-And-White-Club/survivor-pool/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds the containers shared by one integration test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	Config        *config.Config
}

// truncated lists every table the tests write, children first.
var truncated = []string{
	"standings",
	"picks",
	"pick_submissions",
	"league_memberships",
	"leagues",
	"matches",
	"players",
	"rounds",
	"tournaments",
	"river_job",
}

// NewTestEnvironment starts Postgres and NATS and migrates the schema, River included.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(ctx)
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Terminate()
		return nil, err
	}
	env.NatsContainer = natsContainer

	env.DB = app.OpenDB(dsn)
	if err := dbmigrate.Up(ctx, env.DB, dsn); err != nil {
		env.Terminate()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
		NATS:     config.NATSConfig{URL: natsURL},
		Scoring: config.ScoringConfig{
			StrikesToEliminate: 2,
			SweepInterval:      time.Hour,
		},
		Observability: config.ObservabilityConfig{Environment: "test"},
	}
	return env, nil
}

// Reset empties every table so each test starts from a clean schema.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	query := "TRUNCATE TABLE " + strings.Join(truncated, ", ") + " CASCADE"
	if _, err := env.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// NewApp builds the application against the containers and closes it when t ends.
func (env *TestEnvironment) NewApp(t *testing.T, opts app.Options) *app.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.NewApp(env.Ctx, env.Config, logger, opts)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			t.Logf("failed to close app: %v", err)
		}
	})
	return a
}

// Terminate closes the database handle and stops both containers.
func (env *TestEnvironment) Terminate() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
	env.CancelContext()
}
