package projection

import (
	"context"
	"fmt"
	"math"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// CompoundEngine is the baseline in-process engine: flat growth and inflation
// rates, surplus swept into investments, deficits drawn cash-first. It exists
// so the pipeline runs without the external engine; it makes no market-model
// claims.
type CompoundEngine struct{}

// NewCompoundEngine creates the baseline engine.
func NewCompoundEngine() *CompoundEngine {
	return &CompoundEngine{}
}

// Project runs the scenario forward year by year.
func (e *CompoundEngine) Project(ctx context.Context, sc *storage.Scenario) (*Result, error) {
	if sc == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	horizon := sc.HorizonYears
	if horizon <= 0 {
		horizon = sc.LifeExpectancy - sc.CurrentAge
	}
	if horizon <= 0 {
		horizon = 30
	}

	pension := sc.PensionValue
	investment := sc.InvestmentValue
	cash := sc.CashValue

	growth := sc.GrowthRate
	inflation := sc.InflationRate

	eventsByAge := make(map[int]float64)
	for _, ev := range sc.CapitalEvents {
		eventsByAge[ev.Age] += ev.Amount
	}

	var totalContributions, totalWithdrawals float64
	years := make([]YearRecord, 0, horizon)

	for y := 0; y < horizon; y++ {
		age := sc.CurrentAge + y

		income := sc.AnnualIncome
		if age >= sc.RetirementAge {
			// Post-retirement income approximates sustainable drawdown plus
			// state pension once in payment.
			income = sc.AnnualExpenses * 0.4
			if age >= sc.StatePensionAge {
				income += 11500
			}
		}
		expenses := sc.AnnualExpenses * math.Pow(1+inflation, float64(y))

		pension *= 1 + growth
		investment *= 1 + growth
		cash *= 1 + growth*0.3 // cash drags behind invested assets

		surplus := income - expenses
		if surplus >= 0 {
			investment += surplus
			totalContributions += surplus
		} else {
			deficit := -surplus
			totalWithdrawals += deficit
			// Draw cash first, then investments, then pension once at
			// retirement age.
			draw := math.Min(deficit, cash)
			cash -= draw
			deficit -= draw
			draw = math.Min(deficit, investment)
			investment -= draw
			deficit -= draw
			if age >= sc.RetirementAge {
				pension -= math.Min(deficit, pension)
			}
		}

		if ev := eventsByAge[age]; ev != 0 {
			cash += ev
			if ev > 0 {
				totalContributions += ev
			} else {
				totalWithdrawals += -ev
			}
		}

		total := pension + investment + cash
		years = append(years, YearRecord{
			Year:            y,
			Age:             age,
			Income:          income,
			Expenses:        expenses,
			PensionValue:    pension,
			InvestmentValue: investment,
			CashValue:       cash,
			AssetTotal:      total,
			NominalValue:    total,
			RealValue:       total / math.Pow(1+inflation, float64(y)),
			Surplus:         income - expenses,
		})
	}

	summary := e.summarize(sc, years, totalContributions, totalWithdrawals)

	return &Result{
		ScenarioID: sc.ID.String(),
		Summary:    summary,
		Years:      years,
	}, nil
}

func (e *CompoundEngine) summarize(sc *storage.Scenario, years []YearRecord, contributions, withdrawals float64) Summary {
	var final YearRecord
	if len(years) > 0 {
		final = years[len(years)-1]
	}

	// Sustainability: how many years of final-year expenses the closing real
	// value covers, capped onto the 0-10 scale.
	rating := 0
	if final.Expenses > 0 {
		rating = int(math.Min(10, final.RealValue/final.Expenses/2))
	}

	depleted := false
	for _, y := range years {
		if y.AssetTotal <= 0 {
			depleted = true
			break
		}
	}

	shortfall := RiskLow
	if depleted {
		shortfall = RiskHigh
	} else if rating < 5 {
		shortfall = RiskMedium
	}

	longevity := RiskMedium
	if sc.LifeExpectancy-sc.RetirementAge > 30 {
		longevity = RiskHigh
	} else if sc.LifeExpectancy-sc.RetirementAge < 20 {
		longevity = RiskLow
	}

	inflationRisk := RiskLow
	if sc.InflationRate >= 0.03 {
		inflationRisk = RiskHigh
	} else if sc.InflationRate >= 0.02 {
		inflationRisk = RiskMedium
	}

	sequence := RiskMedium
	if sc.EquitiesPct >= 70 {
		sequence = RiskHigh
	} else if sc.EquitiesPct <= 30 {
		sequence = RiskLow
	}

	insights := []string{
		fmt.Sprintf("Projected portfolio value at age %d is %.0f in nominal terms.", final.Age, final.NominalValue),
	}
	if depleted {
		insights = append(insights, "Assets are projected to run out before the end of the plan.")
	} else {
		insights = append(insights, fmt.Sprintf("The plan remains funded across all %d projected years.", len(years)))
	}
	if withdrawals > contributions {
		insights = append(insights, "Withdrawals exceed contributions over the plan; review spending assumptions.")
	}

	return Summary{
		FinalPortfolioValue:  final.NominalValue,
		FinalRealValue:       final.RealValue,
		TotalContributions:   contributions,
		TotalWithdrawals:     withdrawals,
		AverageReturn:        sc.GrowthRate,
		SustainabilityRating: rating,
		GoalAchieved:         !depleted,
		Risk: RiskMetrics{
			Shortfall: shortfall,
			Longevity: longevity,
			Inflation: inflationRisk,
			Sequence:  sequence,
		},
		KeyInsights: insights,
	}
}
