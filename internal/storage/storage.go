package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned by every implementation.
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrReportNotFound   = errors.New("report not found")
)

// Client is an advisory client record.
type Client struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	AdvisorName string
	FirmName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName returns the client's full name for report headers.
func (c *Client) DisplayName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CapitalEvent is a user-supplied one-off inflow or outflow at a given age.
type CapitalEvent struct {
	Age    int     `json:"age"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Scenario holds the financial inputs a projection runs over.
type Scenario struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	Name     string
	Kind     string // "retirement", "accumulation", "drawdown"

	CurrentAge      int
	RetirementAge   int
	StatePensionAge int
	LifeExpectancy  int
	HorizonYears    int

	// Current position
	PensionValue    float64
	InvestmentValue float64
	CashValue       float64
	AnnualIncome    float64
	AnnualExpenses  float64
	MortgageBalance float64
	MortgagePayment float64 // annual

	// Market assumptions
	GrowthRate    float64 // expected annual return, e.g. 0.05
	InflationRate float64 // e.g. 0.025

	// Target allocation, percentages 0-100
	EquitiesPct     float64
	BondsPct        float64
	CashPct         float64
	AlternativesPct float64

	CapitalEvents []CapitalEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientStorage is the client store contract.
type ClientStorage interface {
	// GetClientByID returns a client or ErrClientNotFound
	GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// ListClients returns all clients
	ListClients(ctx context.Context) ([]Client, error)

	// CreateClient inserts a new client
	CreateClient(ctx context.Context, client *Client) error
}

// ScenarioStorage is the scenario store contract.
type ScenarioStorage interface {
	// GetScenario returns a scenario or ErrScenarioNotFound
	GetScenario(ctx context.Context, id uuid.UUID) (*Scenario, error)

	// ListScenarios returns scenarios belonging to a client
	ListScenarios(ctx context.Context, clientID uuid.UUID) ([]Scenario, error)

	// CreateScenario inserts a new scenario
	CreateScenario(ctx context.Context, scenario *Scenario) error
}

// ReportMeta records one successfully generated report. Rows are insert-only:
// a generation never updates an existing row, so there is no conflict handling.
type ReportMeta struct {
	ID                uuid.UUID `json:"id"`
	ScenarioID        uuid.UUID `json:"scenarioId"`
	ClientID          uuid.UUID `json:"clientId"`
	ReportKind        string    `json:"reportKind"` // "cashflow", "suitability", "review"
	Version           int       `json:"version"`
	ObjectKey         *string   `json:"objectKey,omitempty"` // object store key (NULL in local mode)
	FileSize          int64     `json:"fileSize"`
	Language          string    `json:"language"`
	AccessibilityFlag bool      `json:"accessibilityFlag"`
	CreatedBy         string    `json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Data              []byte    `json:"-"` // artifact bytes, local mode only (not stored in DB)
}

// ReportMetaStorage is the report metadata store contract.
type ReportMetaStorage interface {
	// CreateReportMeta inserts metadata for a completed report
	CreateReportMeta(ctx context.Context, meta *ReportMeta) error

	// GetReportMeta returns metadata by report ID
	GetReportMeta(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReportMeta returns a client's report history, newest first
	ListReportMeta(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]ReportMeta, error)
}

// Storage aggregates the stores the service composes over.
type Storage interface {
	Clients() ClientStorage
	Scenarios() ScenarioStorage
	Reports() ReportMetaStorage

	// Close releases the underlying connection pool (Postgres)
	Close() error
}
