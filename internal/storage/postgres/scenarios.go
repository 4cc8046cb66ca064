package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// PostgresScenarioStorage is the Postgres scenario store. Capital events are
// stored as a jsonb column.
type PostgresScenarioStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresScenarioStorage creates a new Postgres scenario store.
func NewPostgresScenarioStorage(pool *pgxpool.Pool) *PostgresScenarioStorage {
	return &PostgresScenarioStorage{pool: pool}
}

const scenarioColumns = `id, client_id, name, kind,
	current_age, retirement_age, state_pension_age, life_expectancy, horizon_years,
	pension_value, investment_value, cash_value, annual_income, annual_expenses,
	mortgage_balance, mortgage_payment, growth_rate, inflation_rate,
	equities_pct, bonds_pct, cash_pct, alternatives_pct, capital_events,
	created_at, updated_at`

func scanScenario(row pgx.Row) (*storage.Scenario, error) {
	var sc storage.Scenario
	var events []byte
	err := row.Scan(
		&sc.ID, &sc.ClientID, &sc.Name, &sc.Kind,
		&sc.CurrentAge, &sc.RetirementAge, &sc.StatePensionAge, &sc.LifeExpectancy, &sc.HorizonYears,
		&sc.PensionValue, &sc.InvestmentValue, &sc.CashValue, &sc.AnnualIncome, &sc.AnnualExpenses,
		&sc.MortgageBalance, &sc.MortgagePayment, &sc.GrowthRate, &sc.InflationRate,
		&sc.EquitiesPct, &sc.BondsPct, &sc.CashPct, &sc.AlternativesPct, &events,
		&sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &sc.CapitalEvents); err != nil {
			return nil, fmt.Errorf("failed to decode capital events: %w", err)
		}
	}
	return &sc, nil
}

// GetScenario returns a scenario by ID.
func (s *PostgresScenarioStorage) GetScenario(ctx context.Context, id uuid.UUID) (*storage.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`

	sc, err := scanScenario(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	return sc, nil
}

// ListScenarios returns a client's scenarios, newest first.
func (s *PostgresScenarioStorage) ListScenarios(ctx context.Context, clientID uuid.UUID) ([]storage.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []storage.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, *sc)
	}

	return scenarios, rows.Err()
}

// CreateScenario inserts a new scenario.
func (s *PostgresScenarioStorage) CreateScenario(ctx context.Context, scenario *storage.Scenario) error {
	query := `
		INSERT INTO scenarios (id, client_id, name, kind,
			current_age, retirement_age, state_pension_age, life_expectancy, horizon_years,
			pension_value, investment_value, cash_value, annual_income, annual_expenses,
			mortgage_balance, mortgage_payment, growth_rate, inflation_rate,
			equities_pct, bonds_pct, cash_pct, alternatives_pct, capital_events,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}

	events, err := json.Marshal(scenario.CapitalEvents)
	if err != nil {
		return fmt.Errorf("failed to encode capital events: %w", err)
	}

	err = s.pool.QueryRow(ctx, query,
		scenario.ID, scenario.ClientID, scenario.Name, scenario.Kind,
		scenario.CurrentAge, scenario.RetirementAge, scenario.StatePensionAge, scenario.LifeExpectancy, scenario.HorizonYears,
		scenario.PensionValue, scenario.InvestmentValue, scenario.CashValue, scenario.AnnualIncome, scenario.AnnualExpenses,
		scenario.MortgageBalance, scenario.MortgagePayment, scenario.GrowthRate, scenario.InflationRate,
		scenario.EquitiesPct, scenario.BondsPct, scenario.CashPct, scenario.AlternativesPct, events,
	).Scan(&scenario.CreatedAt, &scenario.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}

	return nil
}
