package reports

import (
	"testing"

	"github.com/plannetic/advisor-hub/internal/charts"
)

func TestOptionsNormalized_Defaults(t *testing.T) {
	o := Options{}.Normalized()

	if o.OutputFormat != FormatHTML {
		t.Errorf("format = %q", o.OutputFormat)
	}
	if o.Locale != "en-GB" {
		t.Errorf("locale = %q", o.Locale)
	}
	if o.ReportPeriodYears != 20 {
		t.Errorf("period = %d", o.ReportPeriodYears)
	}
	if len(o.ChartKinds) != len(charts.AllKinds()) {
		t.Errorf("chart kinds = %v", o.ChartKinds)
	}
}

func TestOptionsNormalized_DoesNotMutateCallerKinds(t *testing.T) {
	kinds := []charts.Kind{charts.KindPortfolio, charts.Kind("sparkline"), charts.KindRiskAnalysis}

	o := Options{ChartKinds: kinds}.Normalized()

	if len(o.ChartKinds) != 2 {
		t.Errorf("kept kinds = %v", o.ChartKinds)
	}
	if kinds[1] != charts.Kind("sparkline") || kinds[2] != charts.KindRiskAnalysis {
		t.Errorf("caller's slice mutated: %v", kinds)
	}
}
