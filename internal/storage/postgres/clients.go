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

// PostgresClientStorage is the Postgres client store.
type PostgresClientStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresClientStorage creates a new Postgres client store.
func NewPostgresClientStorage(pool *pgxpool.Pool) *PostgresClientStorage {
	return &PostgresClientStorage{pool: pool}
}

// GetClientByID returns a client by ID.
func (s *PostgresClientStorage) GetClientByID(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth, advisor_name, firm_name, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var c storage.Client
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.DateOfBirth,
		&c.AdvisorName,
		&c.FirmName,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &c, nil
}

// ListClients returns all clients ordered by last name.
func (s *PostgresClientStorage) ListClients(ctx context.Context) ([]storage.Client, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth, advisor_name, firm_name, created_at, updated_at
		FROM clients
		ORDER BY last_name, first_name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []storage.Client
	for rows.Next() {
		var c storage.Client
		err := rows.Scan(
			&c.ID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
			&c.Phone,
			&c.DateOfBirth,
			&c.AdvisorName,
			&c.FirmName,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// CreateClient inserts a new client.
func (s *PostgresClientStorage) CreateClient(ctx context.Context, client *storage.Client) error {
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, date_of_birth, advisor_name, firm_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.DateOfBirth,
		client.AdvisorName,
		client.FirmName,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}
