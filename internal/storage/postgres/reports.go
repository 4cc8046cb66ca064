package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// PostgresReportMetaStorage is the Postgres report metadata store.
type PostgresReportMetaStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresReportMetaStorage creates a new Postgres report metadata store.
func NewPostgresReportMetaStorage(pool *pgxpool.Pool) *PostgresReportMetaStorage {
	return &PostgresReportMetaStorage{pool: pool}
}

// CreateReportMeta inserts metadata for a completed report.
func (s *PostgresReportMetaStorage) CreateReportMeta(ctx context.Context, meta *storage.ReportMeta) error {
	query := `
		INSERT INTO report_metadata (id, scenario_id, client_id, report_kind, version, object_key, file_size, language, accessibility_flag, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.Version == 0 {
		meta.Version = 1
	}

	err := s.pool.QueryRow(ctx, query,
		meta.ID,
		meta.ScenarioID,
		meta.ClientID,
		meta.ReportKind,
		meta.Version,
		meta.ObjectKey,
		meta.FileSize,
		meta.Language,
		meta.AccessibilityFlag,
		meta.CreatedBy,
	).Scan(&meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report metadata: %w", err)
	}

	return nil
}

// GetReportMeta returns metadata by report ID.
func (s *PostgresReportMetaStorage) GetReportMeta(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, scenario_id, client_id, report_kind, version, object_key, file_size, language, accessibility_flag, created_by, created_at, updated_at
		FROM report_metadata
		WHERE id = $1
	`

	var m storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.ScenarioID,
		&m.ClientID,
		&m.ReportKind,
		&m.Version,
		&m.ObjectKey,
		&m.FileSize,
		&m.Language,
		&m.AccessibilityFlag,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report metadata: %w", err)
	}

	return &m, nil
}

// ListReportMeta returns a client's report history, newest first.
func (s *PostgresReportMetaStorage) ListReportMeta(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, scenario_id, client_id, report_kind, version, object_key, file_size, language, accessibility_flag, created_by, created_at, updated_at
		FROM report_metadata
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list report metadata: %w", err)
	}
	defer rows.Close()

	var metas []storage.ReportMeta
	for rows.Next() {
		var m storage.ReportMeta
		err := rows.Scan(
			&m.ID,
			&m.ScenarioID,
			&m.ClientID,
			&m.ReportKind,
			&m.Version,
			&m.ObjectKey,
			&m.FileSize,
			&m.Language,
			&m.AccessibilityFlag,
			&m.CreatedBy,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report metadata: %w", err)
		}
		metas = append(metas, m)
	}

	return metas, rows.Err()
}
