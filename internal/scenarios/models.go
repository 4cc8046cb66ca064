package scenarios

import (
	"time"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// CreateScenarioRequest is the POST /v1/scenarios payload.
type CreateScenarioRequest struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // retirement | accumulation | drawdown

	CurrentAge      int `json:"currentAge"`
	RetirementAge   int `json:"retirementAge"`
	StatePensionAge int `json:"statePensionAge"`
	LifeExpectancy  int `json:"lifeExpectancy"`
	HorizonYears    int `json:"horizonYears"`

	PensionValue    float64 `json:"pensionValue"`
	InvestmentValue float64 `json:"investmentValue"`
	CashValue       float64 `json:"cashValue"`
	AnnualIncome    float64 `json:"annualIncome"`
	AnnualExpenses  float64 `json:"annualExpenses"`
	MortgageBalance float64 `json:"mortgageBalance"`
	MortgagePayment float64 `json:"mortgagePayment"`

	GrowthRate    float64 `json:"growthRate"`
	InflationRate float64 `json:"inflationRate"`

	EquitiesPct     float64 `json:"equitiesPct"`
	BondsPct        float64 `json:"bondsPct"`
	CashPct         float64 `json:"cashPct"`
	AlternativesPct float64 `json:"alternativesPct"`

	CapitalEvents []storage.CapitalEvent `json:"capitalEvents"`
}

// ScenarioResponse is the outward scenario shape.
type ScenarioResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`

	CurrentAge      int `json:"currentAge"`
	RetirementAge   int `json:"retirementAge"`
	StatePensionAge int `json:"statePensionAge"`
	LifeExpectancy  int `json:"lifeExpectancy"`
	HorizonYears    int `json:"horizonYears"`

	PensionValue    float64 `json:"pensionValue"`
	InvestmentValue float64 `json:"investmentValue"`
	CashValue       float64 `json:"cashValue"`
	AnnualIncome    float64 `json:"annualIncome"`
	AnnualExpenses  float64 `json:"annualExpenses"`
	MortgageBalance float64 `json:"mortgageBalance"`
	MortgagePayment float64 `json:"mortgagePayment"`

	GrowthRate    float64 `json:"growthRate"`
	InflationRate float64 `json:"inflationRate"`

	EquitiesPct     float64 `json:"equitiesPct"`
	BondsPct        float64 `json:"bondsPct"`
	CashPct         float64 `json:"cashPct"`
	AlternativesPct float64 `json:"alternativesPct"`

	CapitalEvents []storage.CapitalEvent `json:"capitalEvents"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScenariosResponse wraps a list response.
type ScenariosResponse struct {
	Scenarios []ScenarioResponse `json:"scenarios"`
}
