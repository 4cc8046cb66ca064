// Package charts turns projection series into self-contained SVG images.
// Everything is rendered as vector markup strings, so no native graphics
// stack is required and the output embeds directly into report documents.
package charts

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
)

// Kind selects the chart algorithm.
type Kind string

const (
	KindPortfolio       Kind = "portfolio"
	KindIncomeExpense   Kind = "income_expense"
	KindAssetAllocation Kind = "asset_allocation"
	KindRiskAnalysis    Kind = "risk_analysis"
)

// AllKinds lists every supported chart kind.
func AllKinds() []Kind {
	return []Kind{KindPortfolio, KindIncomeExpense, KindAssetAllocation, KindRiskAnalysis}
}

// IsValid reports whether k is a supported kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindPortfolio, KindIncomeExpense, KindAssetAllocation, KindRiskAnalysis:
		return true
	}
	return false
}

// Title returns the default chart title for a kind.
func (k Kind) Title() string {
	switch k {
	case KindPortfolio:
		return "Portfolio Composition Over Time"
	case KindIncomeExpense:
		return "Income vs Expenses"
	case KindAssetAllocation:
		return "Asset Allocation"
	case KindRiskAnalysis:
		return "Risk Analysis"
	}
	return string(k)
}

const MimeSVG = "image/svg+xml"

// Style holds rendering parameters shared by all chart kinds.
type Style struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	FontSize     int
	Theme        string // "light" | "dark"
	HighContrast bool
	Title        string // overrides Kind.Title when set
}

// DefaultStyle returns sensible defaults for report charts.
func DefaultStyle() Style {
	return Style{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  40,
		MarginBottom: 50,
		MarginLeft:   80,
		FontSize:     11,
		Theme:        "light",
	}
}

// palette resolves the drawing colors for the style. High contrast forces
// black-on-white regardless of theme.
type palette struct {
	Background  string
	Text        string
	Grid        string
	Series      []string
	StrokeWidth float64
}

func (s Style) palette() palette {
	if s.HighContrast {
		return palette{
			Background:  "#ffffff",
			Text:        "#000000",
			Grid:        "#000000",
			Series:      []string{"#000000", "#333333", "#666666", "#999999"},
			StrokeWidth: 2.5,
		}
	}
	if s.Theme == "dark" {
		return palette{
			Background:  "#1a1a2e",
			Text:        "#e5e7eb",
			Grid:        "#374151",
			Series:      []string{"#60a5fa", "#34d399", "#fbbf24", "#f472b6"},
			StrokeWidth: 1.5,
		}
	}
	return palette{
		Background:  "#ffffff",
		Text:        "#333333",
		Grid:        "#e8e8e8",
		Series:      []string{"#2563eb", "#16a34a", "#ea580c", "#9333ea"},
		StrokeWidth: 1.5,
	}
}

// plotArea returns the usable drawing area.
func (s Style) plotArea() (x, y, w, h int) {
	return s.MarginLeft, s.MarginTop,
		s.Width - s.MarginLeft - s.MarginRight,
		s.Height - s.MarginTop - s.MarginBottom
}

func (s Style) title(kind Kind) string {
	if s.Title != "" {
		return s.Title
	}
	return kind.Title()
}

// normalized fills zero dimensions from the defaults so every chart has a
// non-zero canvas even when the caller passes Style{}.
func (s Style) normalized() Style {
	def := DefaultStyle()
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	if s.MarginTop <= 0 {
		s.MarginTop = def.MarginTop
	}
	if s.MarginRight <= 0 {
		s.MarginRight = def.MarginRight
	}
	if s.MarginBottom <= 0 {
		s.MarginBottom = def.MarginBottom
	}
	if s.MarginLeft <= 0 {
		s.MarginLeft = def.MarginLeft
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	return s
}

// Image is one synthesized chart.
type Image struct {
	Kind    Kind
	MIME    string
	Raw     []byte
	DataURI string
	Width   int
	Height  int
	URL     string // set once persisted, optional
}

func newImage(kind Kind, svg string, style Style) *Image {
	return &Image{
		Kind:    kind,
		MIME:    MimeSVG,
		Raw:     []byte(svg),
		DataURI: "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)),
		Width:   style.Width,
		Height:  style.Height,
	}
}

// Synthesize renders one chart kind. It never fails for well-formed input:
// an empty series produces a valid empty-axis chart, because preview mode
// calls with partial data.
func Synthesize(years []projection.YearRecord, scenario *storage.Scenario, summary projection.Summary, kind Kind, style Style) (*Image, error) {
	style = style.normalized()

	var svg string
	switch kind {
	case KindPortfolio:
		svg = portfolioChart(years, kind, style)
	case KindIncomeExpense:
		svg = incomeExpenseChart(years, kind, style)
	case KindAssetAllocation:
		svg = allocationChart(scenario, kind, style)
	case KindRiskAnalysis:
		svg = riskRadarChart(summary.Risk, kind, style)
	default:
		return nil, fmt.Errorf("unknown chart kind: %q", kind)
	}

	return newImage(kind, svg, style), nil
}

// Placeholder renders a labeled stand-in used when preview-mode chart
// generation fails.
func Placeholder(kind Kind, style Style) *Image {
	style = style.normalized()
	p := style.palette()

	var sb strings.Builder
	sb.WriteString(svgHeader(style))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, style.Width, style.Height, p.Background))
	sb.WriteString(fmt.Sprintf(`<rect x="10" y="10" width="%d" height="%d" fill="none" stroke="%s" stroke-dasharray="6,4"/>`,
		style.Width-20, style.Height-20, p.Grid))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="14" fill="%s" text-anchor="middle">%s unavailable</text>`,
		style.Width/2, style.Height/2, p.Text, escapeXML(kind.Title())))
	sb.WriteString("</svg>")

	return newImage(kind, sb.String(), style)
}

// ---- shared SVG helpers ----

func svgHeader(s Style) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		s.Width, s.Height, s.Width, s.Height)
}

func chartFrame(sb *strings.Builder, s Style, p palette, kind Kind) {
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		s.Width, s.Height, p.Background))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="22" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		s.Width/2, p.Text, escapeXML(s.title(kind))))
}

// emptyAxisChart draws the frame and axes with no data series.
func emptyAxisChart(s Style, p palette, kind Kind) string {
	px, py, pw, ph := s.plotArea()

	var sb strings.Builder
	sb.WriteString(svgHeader(s))
	chartFrame(&sb, s, p, kind)
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%.1f"/>`,
		px, py, px, py+ph, p.Text, p.StrokeWidth))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%.1f"/>`,
		px, py+ph, px+pw, py+ph, p.Text, p.StrokeWidth))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">No projection data</text>`,
		px+pw/2, py+ph/2, s.FontSize+1, p.Grid))
	sb.WriteString("</svg>")
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

// compactAmount formats axis money labels: 1.2M, 450k, 900.
func compactAmount(v float64) string {
	switch {
	case v >= 1_000_000 || v <= -1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000 || v <= -1_000:
		return fmt.Sprintf("%.0fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
