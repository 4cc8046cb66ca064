package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/plannetic/advisor-hub/internal/charts"
	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
	"github.com/plannetic/advisor-hub/internal/templates"
)

// reportTitle maps a report kind to its document title.
func reportTitle(kind string) string {
	switch kind {
	case KindSuitability:
		return "Suitability Report"
	case KindReview:
		return "Annual Review"
	default:
		return "Cash Flow Report"
	}
}

// BuildVariables computes the full placeholder map for one report. It is a
// pure function of its inputs: no I/O, no clock access beyond the supplied
// generation time.
func BuildVariables(
	kind string,
	client *storage.Client,
	scenario *storage.Scenario,
	result *projection.Result,
	options Options,
	images []charts.Image,
	firmName string,
	generatedAt time.Time,
) templates.VariableMap {
	f := NewFormatter(options.Locale, options.Currency)
	summary := result.Summary

	firm := firmName
	if client.FirmName != "" {
		firm = client.FirmName
	}

	vars := templates.VariableMap{
		"REPORT_TITLE": reportTitle(kind),
		"REPORT_DATE":  f.FormatDate(generatedAt),
		"ADVISOR_NAME": client.AdvisorName,
		"FIRM_NAME":    firm,

		"CLIENT_NAME":  client.DisplayName(),
		"CLIENT_EMAIL": client.Email,
		"CLIENT_PHONE": client.Phone,

		"SCENARIO_NAME":     scenario.Name,
		"SCENARIO_TYPE":     scenario.Kind,
		"HORIZON_YEARS":     strconv.Itoa(scenario.HorizonYears),
		"RETIREMENT_AGE":    strconv.Itoa(scenario.RetirementAge),
		"STATE_PENSION_AGE": strconv.Itoa(scenario.StatePensionAge),
		"LIFE_EXPECTANCY":   strconv.Itoa(scenario.LifeExpectancy),

		"PENSION_VALUE":    f.FormatCurrency(scenario.PensionValue),
		"INVESTMENT_VALUE": f.FormatCurrency(scenario.InvestmentValue),
		"CASH_VALUE":       f.FormatCurrency(scenario.CashValue),
		"ANNUAL_INCOME":    f.FormatCurrency(scenario.AnnualIncome),
		"ANNUAL_EXPENSES":  f.FormatCurrency(scenario.AnnualExpenses),
		"GROWTH_RATE":      f.FormatPercent(scenario.GrowthRate),
		"INFLATION_RATE":   f.FormatPercent(scenario.InflationRate),

		"FINAL_PORTFOLIO_VALUE": f.FormatCurrency(summary.FinalPortfolioValue),
		"FINAL_REAL_VALUE":      f.FormatCurrency(summary.FinalRealValue),
		"TOTAL_CONTRIBUTIONS":   f.FormatCurrency(summary.TotalContributions),
		"TOTAL_WITHDRAWALS":     f.FormatCurrency(summary.TotalWithdrawals),
		"AVERAGE_RETURN":        f.FormatPercent(summary.AverageReturn),
		"SUSTAINABILITY_RATING": strconv.Itoa(summary.SustainabilityRating),
		"GOAL_ACHIEVED":         f.YesNo(summary.GoalAchieved),

		"RISK_SHORTFALL": riskLabel(summary.Risk.Shortfall),
		"RISK_LONGEVITY": riskLabel(summary.Risk.Longevity),
		"RISK_INFLATION": riskLabel(summary.Risk.Inflation),
		"RISK_SEQUENCE":  riskLabel(summary.Risk.Sequence),

		"INSIGHTS_HTML": renderInsightsHTML(summary.KeyInsights),

		// Content flags are string-typed booleans: the conditional evaluator
		// compares against the literal "true"/"false".
		"SHOW_CHARTS":           flag(options.IncludeCharts && len(images) > 0),
		"SHOW_ASSUMPTIONS":      flag(options.IncludeAssumptions),
		"SHOW_RISK_ANALYSIS":    flag(options.IncludeRiskAnalysis),
		"SHOW_PROJECTION_TABLE": flag(options.IncludeProjectionTable),
		"SHOW_TIMELINE":         flag(true),
	}

	if logo := options.Customizations.LogoURL; logo != "" {
		vars["LOGO_HTML"] = fmt.Sprintf(`<img class="logo" src="%s" alt="%s logo"/>`,
			escapeHTML(logo), escapeHTML(firm))
	}
	if options.IncludeCharts {
		vars["CHARTS_HTML"] = renderChartsHTML(images, options.Accessibility.ScreenReader)
	}
	if options.IncludeProjectionTable {
		vars["PROJECTION_TABLE_HTML"] = renderProjectionTableHTML(result.Years, options.ReportPeriodYears, f)
	}
	if options.IncludeAssumptions {
		vars["ASSUMPTIONS_TABLE_HTML"] = renderAssumptionsHTML(scenario, f)
	}
	if options.IncludeRiskAnalysis {
		vars["RISK_NARRATIVE_HTML"] = renderRiskNarrativeHTML(summary, f)
	}
	vars["TIMELINE_HTML"] = renderTimelineHTML(BuildTimelineEvents(scenario, f))

	return vars
}

func flag(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func riskLabel(r projection.RiskScore) string {
	v := r.Value()
	switch {
	case v < 0.45:
		return "Low"
	case v < 0.75:
		return "Medium"
	default:
		return "High"
	}
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func renderInsightsHTML(insights []string) string {
	if len(insights) == 0 {
		return "<p>No insights available.</p>"
	}
	var sb strings.Builder
	sb.WriteString(`<ul class="insights">`)
	for _, in := range insights {
		sb.WriteString("<li>" + escapeHTML(in) + "</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// renderChartsHTML embeds every chart as an inline data URI. Each image gets
// an alt-text description; screen-reader mode adds a visually hidden text
// node alongside.
func renderChartsHTML(images []charts.Image, screenReader bool) string {
	if len(images) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, img := range images {
		alt := img.Kind.Title()
		sb.WriteString(`<div class="chart-block">`)
		sb.WriteString(fmt.Sprintf(`<img src="%s" alt="%s" width="%d" height="%d"/>`,
			img.DataURI, escapeHTML(alt), img.Width, img.Height))
		if screenReader {
			sb.WriteString(`<span class="sr-only">Chart: ` + escapeHTML(alt) + `</span>`)
		}
		sb.WriteString("</div>")
	}
	return sb.String()
}

func renderProjectionTableHTML(years []projection.YearRecord, periodYears int, f *Formatter) string {
	if len(years) == 0 {
		return "<p>No projection data.</p>"
	}
	if periodYears > 0 && len(years) > periodYears {
		years = years[:periodYears]
	}

	var sb strings.Builder
	sb.WriteString("<table><tr><th>Age</th><th>Income</th><th>Expenses</th><th>Assets</th><th>Real Terms</th><th>Surplus</th></tr>")
	for _, y := range years {
		sb.WriteString(fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			y.Age,
			f.FormatCurrency(y.Income),
			f.FormatCurrency(y.Expenses),
			f.FormatCurrency(y.AssetTotal),
			f.FormatCurrency(y.RealValue),
			f.FormatCurrency(y.Surplus)))
	}
	sb.WriteString("</table>")
	return sb.String()
}

func renderAssumptionsHTML(sc *storage.Scenario, f *Formatter) string {
	var sb strings.Builder
	sb.WriteString("<table><tr><th>Assumption</th><th>Value</th></tr>")
	rows := [][2]string{
		{"Expected annual growth", f.FormatPercent(sc.GrowthRate)},
		{"Inflation", f.FormatPercent(sc.InflationRate)},
		{"Retirement age", strconv.Itoa(sc.RetirementAge)},
		{"State pension age", strconv.Itoa(sc.StatePensionAge)},
		{"Planning horizon", strconv.Itoa(sc.HorizonYears) + " years"},
		{"Equities allocation", f.FormatNumber(sc.EquitiesPct, 0) + "%"},
		{"Bonds allocation", f.FormatNumber(sc.BondsPct, 0) + "%"},
	}
	for _, r := range rows {
		sb.WriteString("<tr><td>" + escapeHTML(r[0]) + "</td><td>" + escapeHTML(r[1]) + "</td></tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

func renderRiskNarrativeHTML(summary projection.Summary, f *Formatter) string {
	var sb strings.Builder
	sb.WriteString("<p>The plan's principal exposures are assessed as: shortfall ")
	sb.WriteString(strings.ToLower(riskLabel(summary.Risk.Shortfall)))
	sb.WriteString(", longevity ")
	sb.WriteString(strings.ToLower(riskLabel(summary.Risk.Longevity)))
	sb.WriteString(", inflation ")
	sb.WriteString(strings.ToLower(riskLabel(summary.Risk.Inflation)))
	sb.WriteString(" and sequence-of-returns ")
	sb.WriteString(strings.ToLower(riskLabel(summary.Risk.Sequence)))
	sb.WriteString(".</p>")

	if summary.GoalAchieved {
		sb.WriteString("<p>On the stated assumptions the plan remains funded throughout, with a projected real-terms value of ")
		sb.WriteString(f.FormatCurrency(summary.FinalRealValue))
		sb.WriteString(" at the end of the horizon.</p>")
	} else {
		sb.WriteString("<p>On the stated assumptions the plan is projected to exhaust its assets before the end of the horizon. A review of contributions, spending or investment risk is recommended.</p>")
	}
	return sb.String()
}
