package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
)

// portfolioChart renders a stacked-area chart of pension, investment and cash
// over the projection horizon. Each layer's top edge is the cumulative sum of
// itself and the layers below it.
func portfolioChart(years []projection.YearRecord, kind Kind, s Style) string {
	p := s.palette()
	if len(years) == 0 {
		return emptyAxisChart(s, p, kind)
	}

	px, py, pw, ph := s.plotArea()
	n := len(years)

	// Y axis is scaled to the maximum stacked total across all years.
	maxTotal := 0.0
	for _, y := range years {
		total := y.PensionValue + y.InvestmentValue + y.CashValue
		if total > maxTotal {
			maxTotal = total
		}
	}
	if maxTotal <= 0 {
		maxTotal = 1
	}

	xAt := func(i int) float64 {
		if n == 1 {
			return float64(px)
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	yAt := func(v float64) float64 {
		return float64(py+ph) - (v/maxTotal)*float64(ph)
	}

	layers := []struct {
		name  string
		value func(projection.YearRecord) float64
	}{
		{"Pension", func(r projection.YearRecord) float64 { return r.PensionValue }},
		{"Investments", func(r projection.YearRecord) float64 { return r.InvestmentValue }},
		{"Cash", func(r projection.YearRecord) float64 { return r.CashValue }},
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(s))
	chartFrame(&sb, s, p, kind)

	// Grid + y labels
	for g := 0; g <= 4; g++ {
		val := maxTotal * float64(g) / 4
		gy := yAt(val)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, gy, px+pw, gy, p.Grid))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-6, gy+4, s.FontSize, p.Text, compactAmount(val)))
	}

	// Stacked areas, bottom layer first. The polygon runs along the layer's
	// cumulative top edge, then back along the layer below's top edge.
	base := make([]float64, n) // cumulative value below the current layer
	for li, layer := range layers {
		tops := make([]float64, n)
		for i, rec := range years {
			tops[i] = base[i] + layer.value(rec)
		}

		var path strings.Builder
		for i := 0; i < n; i++ {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			path.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, xAt(i), yAt(tops[i])))
		}
		for i := n - 1; i >= 0; i-- {
			path.WriteString(fmt.Sprintf("L%.1f,%.1f ", xAt(i), yAt(base[i])))
		}
		path.WriteString("Z")

		color := p.Series[li%len(p.Series)]
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" fill-opacity="0.75" stroke="%s" stroke-width="%.1f"/>`,
			strings.TrimSpace(path.String()), color, color, p.StrokeWidth))

		// Legend
		ly := py + 12 + li*16
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, px+10, ly-10, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+28, ly, p.Text, layer.name))

		base = tops
	}

	// X labels at first, middle and last year only, to avoid overcrowding.
	for _, i := range []int{0, n / 2, n - 1} {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">Age %d</text>`,
			xAt(i), py+ph+18, s.FontSize, p.Text, years[i].Age))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// incomeExpenseChart renders a grouped bar chart with an income and an
// expense bar per projected year.
func incomeExpenseChart(years []projection.YearRecord, kind Kind, s Style) string {
	p := s.palette()
	if len(years) == 0 {
		return emptyAxisChart(s, p, kind)
	}

	px, py, pw, ph := s.plotArea()
	n := len(years)

	maxVal := 0.0
	for _, y := range years {
		maxVal = math.Max(maxVal, math.Max(y.Income, y.Expenses))
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	groupW := float64(pw) / float64(n)
	barW := groupW * 0.35

	var sb strings.Builder
	sb.WriteString(svgHeader(s))
	chartFrame(&sb, s, p, kind)

	for g := 0; g <= 4; g++ {
		val := maxVal * float64(g) / 4
		gy := float64(py+ph) - (val/maxVal)*float64(ph)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, gy, px+pw, gy, p.Grid))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-6, gy+4, s.FontSize, p.Text, compactAmount(val)))
	}

	incomeColor := p.Series[1%len(p.Series)]
	expenseColor := p.Series[2%len(p.Series)]
	if s.HighContrast {
		incomeColor = "#000000"
		expenseColor = "#666666"
	}

	for i, rec := range years {
		gx := float64(px) + float64(i)*groupW

		ih := (rec.Income / maxVal) * float64(ph)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			gx+groupW*0.1, float64(py+ph)-ih, barW, ih, incomeColor))

		eh := (rec.Expenses / maxVal) * float64(ph)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			gx+groupW*0.1+barW+groupW*0.05, float64(py+ph)-eh, barW, eh, expenseColor))
	}

	// Legend
	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, px+10, py+2, incomeColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">Income</text>`, px+28, py+12, p.Text))
	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, px+90, py+2, expenseColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">Expenses</text>`, px+108, py+12, p.Text))

	// X labels at first, middle, last
	for _, i := range []int{0, n / 2, n - 1} {
		cx := float64(px) + float64(i)*groupW + groupW/2
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">Age %d</text>`,
			cx, py+ph+18, s.FontSize, p.Text, years[i].Age))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// allocationChart renders a doughnut over the named allocation categories.
// When the percentages sum to under 100 the remainder silently becomes cash.
func allocationChart(scenario *storage.Scenario, kind Kind, s Style) string {
	p := s.palette()

	type slice struct {
		name string
		pct  float64
	}

	var slices []slice
	total := 0.0
	if scenario != nil {
		slices = []slice{
			{"Equities", scenario.EquitiesPct},
			{"Bonds", scenario.BondsPct},
			{"Cash", scenario.CashPct},
			{"Alternatives", scenario.AlternativesPct},
		}
		for _, sl := range slices {
			total += sl.pct
		}
		if total < 100 {
			slices[2].pct += 100 - total
			total = 100
		}
	}
	if total <= 0 {
		return emptyAxisChart(s, p, kind)
	}

	cx := float64(s.Width) / 2
	cy := float64(s.Height)/2 + 10
	outer := math.Min(float64(s.Width), float64(s.Height))/2 - 50
	inner := outer * 0.55

	var sb strings.Builder
	sb.WriteString(svgHeader(s))
	chartFrame(&sb, s, p, kind)

	angle := -math.Pi / 2 // start at 12 o'clock
	for i, sl := range slices {
		if sl.pct <= 0 {
			continue
		}
		sweep := (sl.pct / total) * 2 * math.Pi
		end := angle + sweep

		largeArc := 0
		if sweep > math.Pi {
			largeArc = 1
		}

		x1o, y1o := cx+outer*math.Cos(angle), cy+outer*math.Sin(angle)
		x2o, y2o := cx+outer*math.Cos(end), cy+outer*math.Sin(end)
		x1i, y1i := cx+inner*math.Cos(end), cy+inner*math.Sin(end)
		x2i, y2i := cx+inner*math.Cos(angle), cy+inner*math.Sin(angle)

		color := p.Series[i%len(p.Series)]
		sb.WriteString(fmt.Sprintf(
			`<path d="M%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d,0 %.1f,%.1f Z" fill="%s" stroke="%s" stroke-width="%.1f"/>`,
			x1o, y1o, outer, outer, largeArc, x2o, y2o,
			x1i, y1i, inner, inner, largeArc, x2i, y2i,
			color, p.Background, p.StrokeWidth))

		// Label at the slice midpoint
		mid := angle + sweep/2
		lx := cx + (outer+22)*math.Cos(mid)
		ly := cy + (outer+22)*math.Sin(mid)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s %.0f%%</text>`,
			lx, ly, s.FontSize, p.Text, sl.name, sl.pct))

		angle = end
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// riskRadarChart renders four fixed axes with the scenario's risk scores and
// reference rings at 33/66/100% radius.
func riskRadarChart(risk projection.RiskMetrics, kind Kind, s Style) string {
	p := s.palette()

	axes := []struct {
		name  string
		score projection.RiskScore
	}{
		{"Shortfall", risk.Shortfall},
		{"Longevity", risk.Longevity},
		{"Inflation", risk.Inflation},
		{"Sequence", risk.Sequence},
	}

	cx := float64(s.Width) / 2
	cy := float64(s.Height)/2 + 10
	radius := math.Min(float64(s.Width), float64(s.Height))/2 - 60

	axisAngle := func(i int) float64 {
		return -math.Pi/2 + float64(i)*math.Pi/2
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(s))
	chartFrame(&sb, s, p, kind)

	// Reference rings
	for _, frac := range []float64{0.33, 0.66, 1.0} {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-dasharray="3,3"/>`,
			cx, cy, radius*frac, p.Grid))
	}

	// Axis spokes and labels
	for i, ax := range axes {
		a := axisAngle(i)
		ex, ey := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`,
			cx, cy, ex, ey, p.Grid, p.StrokeWidth))
		lx, ly := cx+(radius+24)*math.Cos(a), cy+(radius+24)*math.Sin(a)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			lx, ly+4, s.FontSize, p.Text, ax.name))
	}

	// Score polygon
	var points []string
	for i, ax := range axes {
		a := axisAngle(i)
		r := radius * ax.score.Value()
		points = append(points, fmt.Sprintf("%.1f,%.1f", cx+r*math.Cos(a), cy+r*math.Sin(a)))
	}
	color := p.Series[0]
	sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="%.1f"/>`,
		strings.Join(points, " "), color, color, p.StrokeWidth+0.5))

	sb.WriteString("</svg>")
	return sb.String()
}
