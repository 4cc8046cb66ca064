// Package projection defines the projection engine contract consumed by the
// report pipeline. The production engine runs out of process; this package
// carries the typed results plus a deterministic baseline implementation used
// in local mode, previews and tests.
package projection

import (
	"context"
	"strconv"
	"strings"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// YearRecord is one year of a projection series.
type YearRecord struct {
	Year            int     `json:"year"` // 0-based offset from today
	Age             int     `json:"age"`
	Income          float64 `json:"income"`
	Expenses        float64 `json:"expenses"`
	PensionValue    float64 `json:"pensionValue"`
	InvestmentValue float64 `json:"investmentValue"`
	CashValue       float64 `json:"cashValue"`
	AssetTotal      float64 `json:"assetTotal"`
	NominalValue    float64 `json:"nominalValue"`
	RealValue       float64 `json:"realValue"`
	Surplus         float64 `json:"surplus"` // negative = deficit
}

// RiskScore is either a numeric 0-1 score ("0.45") or one of the labels
// low / medium / high.
type RiskScore string

const (
	RiskLow    RiskScore = "low"
	RiskMedium RiskScore = "medium"
	RiskHigh   RiskScore = "high"
)

// Value maps the score onto 0-1. Labels map to 0.3 / 0.6 / 0.9; anything
// unparseable counts as medium.
func (r RiskScore) Value() float64 {
	switch strings.ToLower(strings.TrimSpace(string(r))) {
	case string(RiskLow):
		return 0.3
	case string(RiskMedium), "":
		return 0.6
	case string(RiskHigh):
		return 0.9
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(r)), 64)
	if err != nil {
		return 0.6
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RiskMetrics are the four radar axes of the risk analysis.
type RiskMetrics struct {
	Shortfall RiskScore `json:"shortfall"`
	Longevity RiskScore `json:"longevity"`
	Inflation RiskScore `json:"inflation"`
	Sequence  RiskScore `json:"sequence"`
}

// Summary holds the aggregate metrics a report leads with.
type Summary struct {
	FinalPortfolioValue  float64     `json:"finalPortfolioValue"`
	FinalRealValue       float64     `json:"finalRealValue"`
	TotalContributions   float64     `json:"totalContributions"`
	TotalWithdrawals     float64     `json:"totalWithdrawals"`
	AverageReturn        float64     `json:"averageReturn"`        // e.g. 0.05
	SustainabilityRating int         `json:"sustainabilityRating"` // 0-10
	GoalAchieved         bool        `json:"goalAchieved"`
	Risk                 RiskMetrics `json:"risk"`
	KeyInsights          []string    `json:"keyInsights"`
}

// Result is the engine output. Read-only for the report pipeline.
type Result struct {
	ScenarioID string       `json:"scenarioId"`
	Summary    Summary      `json:"summary"`
	Years      []YearRecord `json:"years"`
}

// Engine computes a projection from a scenario.
type Engine interface {
	Project(ctx context.Context, scenario *storage.Scenario) (*Result, error)
}
