package templates

import (
	"fmt"
	"strings"
)

// StyleOptions parameterize the shared style block of every template.
type StyleOptions struct {
	Theme        string // "light" | "dark" | "auto"
	HighContrast bool
	FontSize     string // "small" | "medium" | "large"

	// Branding overrides. Colors keys are background, text, muted, accent
	// and border; Fonts recognizes the "family" key. High contrast takes
	// precedence over color overrides.
	Colors map[string]string
	Fonts  map[string]string
}

// Report kinds. Unknown kinds fall back to the cash-flow template.
const (
	KindCashflow    = "cashflow"
	KindSuitability = "suitability"
	KindReview      = "review"
)

// Select returns the raw template markup for a report kind. It never fails:
// an unrecognized kind gets the cash-flow body.
func Select(kind string, opts StyleOptions) string {
	var body string
	switch kind {
	case KindSuitability:
		body = suitabilityBody
	case KindReview:
		body = reviewBody
	default:
		body = cashflowBody
	}

	return fmt.Sprintf(documentShell, baseStyle(opts), body)
}

// baseStyle builds the shared CSS parameterized by theme, contrast and font
// size. High contrast wins over the theme.
func baseStyle(opts StyleOptions) string {
	bg, text, muted, accent, border := "#ffffff", "#1a1a2e", "#6b7280", "#2563eb", "#e5e7eb"
	if opts.Theme == "dark" {
		bg, text, muted, accent, border = "#111827", "#e5e7eb", "#9ca3af", "#60a5fa", "#374151"
	}
	for name, v := range opts.Colors {
		v = safeCSSValue(v)
		if v == "" {
			continue
		}
		switch name {
		case "background":
			bg = v
		case "text":
			text = v
		case "muted":
			muted = v
		case "accent":
			accent = v
		case "border":
			border = v
		}
	}
	if opts.HighContrast {
		bg, text, muted, accent, border = "#ffffff", "#000000", "#000000", "#000000", "#000000"
	}

	family := "-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif"
	if v := safeCSSValue(opts.Fonts["family"]); v != "" {
		family = v
	}

	base := "14px"
	switch opts.FontSize {
	case "small":
		base = "12px"
	case "large":
		base = "17px"
	}

	var sb strings.Builder
	sb.WriteString(":root{")
	sb.WriteString("--bg:" + bg + ";--text:" + text + ";--muted:" + muted + ";--accent:" + accent + ";--border:" + border + ";")
	sb.WriteString("--font:" + family + ";--base-size:" + base + ";}")
	sb.WriteString(`
  *{margin:0;padding:0;box-sizing:border-box}
  body{font-family:var(--font);
    font-size:var(--base-size);color:var(--text);background:var(--bg);
    line-height:1.6;max-width:900px;margin:0 auto;padding:24px}
  h1{font-size:1.5em;color:var(--accent);margin-bottom:4px}
  h2{font-size:1.2em;margin:24px 0 12px;padding-bottom:6px;border-bottom:2px solid var(--accent)}
  .muted{color:var(--muted);font-size:.85em}
  .header{display:flex;justify-content:space-between;border-bottom:3px solid var(--accent);
    padding-bottom:12px;margin-bottom:16px}
  .metrics-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(180px,1fr));gap:10px;margin:12px 0}
  .metric{border:1px solid var(--border);border-radius:8px;padding:10px;text-align:center}
  .metric .label{font-size:.75em;color:var(--muted);text-transform:uppercase}
  .metric .value{font-size:1.2em;font-weight:600}
  table{width:100%;border-collapse:collapse;margin:12px 0}
  th,td{border:1px solid var(--border);padding:6px 8px;text-align:right}
  th:first-child,td:first-child{text-align:left}
  th{background:var(--accent);color:var(--bg)}
  .logo{max-height:48px;margin-bottom:6px}
  .chart-block{margin:16px 0;text-align:center}
  .chart-block img{max-width:100%}
  .sr-only{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0,0,0,0)}
  .insights li{margin:4px 0}
  .rec-box{border-left:5px solid var(--accent);padding:14px;margin:12px 0;background:rgba(0,0,0,0.03)}
  .timeline li{margin:6px 0;list-style:none;border-left:2px solid var(--accent);padding-left:12px}
`)
	if opts.HighContrast {
		sb.WriteString("\n  body{font-weight:500}\n  th,td,.metric{border-width:2px}\n")
	}
	return sb.String()
}

// safeCSSValue rejects override values that could escape the style block.
func safeCSSValue(v string) string {
	if strings.ContainsAny(v, "{};<>\"\\") {
		return ""
	}
	return strings.TrimSpace(v)
}

const documentShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{REPORT_TITLE}}</title>
<style>%s</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{REPORT_TITLE}}</h1>
    <p class="muted">Prepared for {{CLIENT_NAME}} on {{REPORT_DATE}}</p>
  </div>
  <div class="muted">
{{#if LOGO_HTML}}    {{LOGO_HTML}}
{{/if}}    <p>{{ADVISOR_NAME}}</p>
    <p>{{FIRM_NAME}}</p>
  </div>
</div>
%s
<p class="muted">This report is illustrative and not a personal recommendation unless stated.
Generated by {{FIRM_NAME}}.</p>
</body>
</html>`

// cashflowBody emphasizes the metrics grid and year-by-year table.
const cashflowBody = `
<h2>Scenario</h2>
<p>{{SCENARIO_NAME}} ({{SCENARIO_TYPE}}) — projected over {{HORIZON_YEARS}} years,
retirement at age {{RETIREMENT_AGE}}, planning to age {{LIFE_EXPECTANCY}}.</p>

<h2>Headline Results</h2>
<div class="metrics-grid">
  <div class="metric"><div class="label">Final Portfolio Value</div><div class="value">{{FINAL_PORTFOLIO_VALUE}}</div></div>
  <div class="metric"><div class="label">In Real Terms</div><div class="value">{{FINAL_REAL_VALUE}}</div></div>
  <div class="metric"><div class="label">Average Return</div><div class="value">{{AVERAGE_RETURN}}</div></div>
  <div class="metric"><div class="label">Sustainability</div><div class="value">{{SUSTAINABILITY_RATING}}/10</div></div>
  <div class="metric"><div class="label">Total Contributions</div><div class="value">{{TOTAL_CONTRIBUTIONS}}</div></div>
  <div class="metric"><div class="label">Total Withdrawals</div><div class="value">{{TOTAL_WITHDRAWALS}}</div></div>
  <div class="metric"><div class="label">Plan Fully Funded</div><div class="value">{{GOAL_ACHIEVED}}</div></div>
</div>

<h2>Key Insights</h2>
{{INSIGHTS_HTML}}

{{#if SHOW_CHARTS}}
<h2>Charts</h2>
{{CHARTS_HTML}}
{{/if}}

<h2>Current Position</h2>
<div class="metrics-grid">
  <div class="metric"><div class="label">Pension</div><div class="value">{{PENSION_VALUE}}</div></div>
  <div class="metric"><div class="label">Investments</div><div class="value">{{INVESTMENT_VALUE}}</div></div>
  <div class="metric"><div class="label">Cash</div><div class="value">{{CASH_VALUE}}</div></div>
  <div class="metric"><div class="label">Annual Income</div><div class="value">{{ANNUAL_INCOME}}</div></div>
  <div class="metric"><div class="label">Annual Expenses</div><div class="value">{{ANNUAL_EXPENSES}}</div></div>
</div>

{{#if SHOW_PROJECTION_TABLE}}
<h2>Year-by-Year Projection</h2>
{{PROJECTION_TABLE_HTML}}
{{/if}}

{{#if SHOW_ASSUMPTIONS}}
<h2>Assumptions</h2>
{{ASSUMPTIONS_TABLE_HTML}}
{{/if}}

{{#if SHOW_RISK_ANALYSIS}}
<h2>Risk Analysis</h2>
{{RISK_NARRATIVE_HTML}}
{{/if}}

{{#if SHOW_TIMELINE}}
<h2>Plan Timeline</h2>
{{TIMELINE_HTML}}
{{/if}}
`

// suitabilityBody emphasizes the risk/objective matrix and recommendation.
const suitabilityBody = `
<h2>Client Objectives</h2>
<p>{{SCENARIO_NAME}} ({{SCENARIO_TYPE}}) for {{CLIENT_NAME}}, retirement at age
{{RETIREMENT_AGE}} with a planning horizon of {{HORIZON_YEARS}} years.</p>

<h2>Risk &amp; Objective Assessment</h2>
<table>
  <tr><th>Dimension</th><th>Assessment</th></tr>
  <tr><td>Shortfall risk</td><td>{{RISK_SHORTFALL}}</td></tr>
  <tr><td>Longevity risk</td><td>{{RISK_LONGEVITY}}</td></tr>
  <tr><td>Inflation risk</td><td>{{RISK_INFLATION}}</td></tr>
  <tr><td>Sequence-of-returns risk</td><td>{{RISK_SEQUENCE}}</td></tr>
  <tr><td>Plan sustainability</td><td>{{SUSTAINABILITY_RATING}}/10</td></tr>
  <tr><td>Objective achievable</td><td>{{GOAL_ACHIEVED}}</td></tr>
</table>

{{#if SHOW_RISK_ANALYSIS}}
{{RISK_NARRATIVE_HTML}}
{{/if}}

<h2>Recommendation</h2>
<div class="rec-box">
  <p>Based on a projected final value of {{FINAL_PORTFOLIO_VALUE}}
  ({{FINAL_REAL_VALUE}} in real terms) at an assumed {{AVERAGE_RETURN}} average
  return, the current strategy is assessed above.</p>
  {{INSIGHTS_HTML}}
</div>

{{#if SHOW_CHARTS}}
<h2>Supporting Charts</h2>
{{CHARTS_HTML}}
{{/if}}

{{#if SHOW_ASSUMPTIONS}}
<h2>Basis of Assessment</h2>
{{ASSUMPTIONS_TABLE_HTML}}
{{/if}}
`

// reviewBody emphasizes the performance highlight and milestone timeline.
const reviewBody = `
<h2>Review Summary</h2>
<div class="rec-box">
  <p><strong>{{CLIENT_NAME}}</strong> — projected portfolio of
  {{FINAL_PORTFOLIO_VALUE}} ({{FINAL_REAL_VALUE}} real) by age
  {{LIFE_EXPECTANCY}}. Sustainability {{SUSTAINABILITY_RATING}}/10.</p>
</div>

<h2>Highlights</h2>
{{INSIGHTS_HTML}}

{{#if SHOW_TIMELINE}}
<h2>Milestone Timeline</h2>
{{TIMELINE_HTML}}
{{/if}}

{{#if SHOW_CHARTS}}
<h2>Charts</h2>
{{CHARTS_HTML}}
{{/if}}

{{#if SHOW_PROJECTION_TABLE}}
<h2>Projection Detail</h2>
{{PROJECTION_TABLE_HTML}}
{{/if}}

{{#if SHOW_ASSUMPTIONS}}
<h2>Assumptions</h2>
{{ASSUMPTIONS_TABLE_HTML}}
{{/if}}
`
