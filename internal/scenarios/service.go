package scenarios

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
)

var (
	ErrEmptyName      = errors.New("scenario name cannot be empty")
	ErrInvalidKind    = errors.New("invalid scenario kind")
	ErrInvalidAges    = errors.New("ages must be ordered: current <= retirement <= life expectancy")
	ErrInvalidClient  = errors.New("invalid client id")
	ErrNotFound       = storage.ErrScenarioNotFound
	ErrClientNotFound = storage.ErrClientNotFound
)

var validKinds = map[string]bool{
	"retirement":   true,
	"accumulation": true,
	"drawdown":     true,
}

// Service holds scenario CRUD logic over the storage layer.
type Service struct {
	scenarios storage.ScenarioStorage
	clients   storage.ClientStorage
}

func NewService(scenarios storage.ScenarioStorage, clients storage.ClientStorage) *Service {
	return &Service{scenarios: scenarios, clients: clients}
}

// GetScenario returns one scenario or ErrNotFound.
func (s *Service) GetScenario(ctx context.Context, id uuid.UUID) (*storage.Scenario, error) {
	return s.scenarios.GetScenario(ctx, id)
}

// ListScenarios returns a client's scenarios.
func (s *Service) ListScenarios(ctx context.Context, clientID uuid.UUID) ([]storage.Scenario, error) {
	return s.scenarios.ListScenarios(ctx, clientID)
}

// CreateScenario validates and inserts a new scenario. The owning client must
// exist.
func (s *Service) CreateScenario(ctx context.Context, req CreateScenarioRequest) (*storage.Scenario, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = "retirement"
	}
	if !validKinds[kind] {
		return nil, ErrInvalidKind
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, ErrInvalidClient
	}
	if _, err := s.clients.GetClientByID(ctx, clientID); err != nil {
		return nil, err
	}

	if req.CurrentAge <= 0 || req.RetirementAge < req.CurrentAge || req.LifeExpectancy < req.RetirementAge {
		return nil, ErrInvalidAges
	}

	horizon := req.HorizonYears
	if horizon <= 0 {
		horizon = req.LifeExpectancy - req.CurrentAge
	}

	scenario := &storage.Scenario{
		ID:       uuid.New(),
		ClientID: clientID,
		Name:     name,
		Kind:     kind,

		CurrentAge:      req.CurrentAge,
		RetirementAge:   req.RetirementAge,
		StatePensionAge: req.StatePensionAge,
		LifeExpectancy:  req.LifeExpectancy,
		HorizonYears:    horizon,

		PensionValue:    req.PensionValue,
		InvestmentValue: req.InvestmentValue,
		CashValue:       req.CashValue,
		AnnualIncome:    req.AnnualIncome,
		AnnualExpenses:  req.AnnualExpenses,
		MortgageBalance: req.MortgageBalance,
		MortgagePayment: req.MortgagePayment,

		GrowthRate:    req.GrowthRate,
		InflationRate: req.InflationRate,

		EquitiesPct:     req.EquitiesPct,
		BondsPct:        req.BondsPct,
		CashPct:         req.CashPct,
		AlternativesPct: req.AlternativesPct,

		CapitalEvents: req.CapitalEvents,
	}
	if err := s.scenarios.CreateScenario(ctx, scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// toResponse converts a storage record into the outward shape.
func toResponse(sc *storage.Scenario) ScenarioResponse {
	return ScenarioResponse{
		ID:       sc.ID.String(),
		ClientID: sc.ClientID.String(),
		Name:     sc.Name,
		Kind:     sc.Kind,

		CurrentAge:      sc.CurrentAge,
		RetirementAge:   sc.RetirementAge,
		StatePensionAge: sc.StatePensionAge,
		LifeExpectancy:  sc.LifeExpectancy,
		HorizonYears:    sc.HorizonYears,

		PensionValue:    sc.PensionValue,
		InvestmentValue: sc.InvestmentValue,
		CashValue:       sc.CashValue,
		AnnualIncome:    sc.AnnualIncome,
		AnnualExpenses:  sc.AnnualExpenses,
		MortgageBalance: sc.MortgageBalance,
		MortgagePayment: sc.MortgagePayment,

		GrowthRate:    sc.GrowthRate,
		InflationRate: sc.InflationRate,

		EquitiesPct:     sc.EquitiesPct,
		BondsPct:        sc.BondsPct,
		CashPct:         sc.CashPct,
		AlternativesPct: sc.AlternativesPct,

		CapitalEvents: sc.CapitalEvents,

		CreatedAt: sc.CreatedAt,
		UpdatedAt: sc.UpdatedAt,
	}
}
