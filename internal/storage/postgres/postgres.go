package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// Aliased so call sites inside the package stay short.
var (
	ErrClientNotFound   = storage.ErrClientNotFound
	ErrScenarioNotFound = storage.ErrScenarioNotFound
	ErrReportNotFound   = storage.ErrReportNotFound
)

// PostgresStorage implements storage.Storage on a pgx connection pool.
type PostgresStorage struct {
	pool      *pgxpool.Pool
	clients   *PostgresClientStorage
	scenarios *PostgresScenarioStorage
	reports   *PostgresReportMetaStorage
}

// New connects to Postgres and verifies the connection with a ping.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:      pool,
		clients:   NewPostgresClientStorage(pool),
		scenarios: NewPostgresScenarioStorage(pool),
		reports:   NewPostgresReportMetaStorage(pool),
	}, nil
}

func (s *PostgresStorage) Clients() storage.ClientStorage     { return s.clients }
func (s *PostgresStorage) Scenarios() storage.ScenarioStorage { return s.scenarios }
func (s *PostgresStorage) Reports() storage.ReportMetaStorage { return s.reports }

// Close releases the connection pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
