//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the tables the production migrations create for the
// archival engine. Kept here so integration tests run against a fresh,
// representative database.
const schema = `
CREATE TABLE IF NOT EXISTS retention_policies (
	policy_name         TEXT PRIMARY KEY,
	data_classification TEXT NOT NULL,
	retention_days      INTEGER NOT NULL,
	archive_after_days  INTEGER NOT NULL,
	delete_after_days   INTEGER,
	is_active           TEXT NOT NULL DEFAULT 'true'
);

CREATE TABLE IF NOT EXISTS audit_records (
	id                  TEXT PRIMARY KEY,
	timestamp           TIMESTAMPTZ NOT NULL,
	principal_id        TEXT NOT NULL,
	action              TEXT NOT NULL,
	data_classification TEXT NOT NULL,
	retention_policy    TEXT NOT NULL DEFAULT '',
	hash                TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS archives (
	id                  TEXT PRIMARY KEY,
	retention_policy    TEXT NOT NULL,
	data_classification TEXT NOT NULL,
	tags                JSONB,
	data                BYTEA NOT NULL,
	content_hash        TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL,
	retrieved_count     BIGINT NOT NULL DEFAULT 0,
	last_retrieved_at   TIMESTAMPTZ
);
`

// PostgresContainer wraps a testcontainers Postgres instance with a ready
// connection pool and the archival schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a new Postgres container, applies the schema,
// and registers cleanup with the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("chronicle"),
		tcpostgres.WithUsername("chronicle"),
		tcpostgres.WithPassword("chronicle"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create postgres pool: %v", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{Container: container, Pool: pool}
	t.Cleanup(func() {
		pc.Pool.Close()
		_ = pc.Container.Terminate(context.Background())
	})
	return pc
}

// TruncateTables empties the given tables between tests.
func (c *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := c.Pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}
