package charts

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
)

func sampleYears() []projection.YearRecord {
	years := make([]projection.YearRecord, 0, 10)
	for i := 0; i < 10; i++ {
		years = append(years, projection.YearRecord{
			Year:            i,
			Age:             50 + i,
			Income:          80000,
			Expenses:        52000,
			PensionValue:    350000 + float64(i)*10000,
			InvestmentValue: 120000 + float64(i)*5000,
			CashValue:       40000,
			AssetTotal:      510000 + float64(i)*15000,
			RealValue:       500000,
		})
	}
	return years
}

func sampleScenario() *storage.Scenario {
	return &storage.Scenario{
		EquitiesPct: 60,
		BondsPct:    25,
		CashPct:     10,
	}
}

func sampleSummary() projection.Summary {
	return projection.Summary{
		Risk: projection.RiskMetrics{
			Shortfall: projection.RiskLow,
			Longevity: projection.RiskMedium,
			Inflation: projection.RiskMedium,
			Sequence:  projection.RiskHigh,
		},
	}
}

func TestSynthesize_AllKinds(t *testing.T) {
	for _, kind := range AllKinds() {
		img, err := Synthesize(sampleYears(), sampleScenario(), sampleSummary(), kind, DefaultStyle())
		if err != nil {
			t.Fatalf("kind %s: %v", kind, err)
		}
		if img.Kind != kind {
			t.Errorf("kind %s: image reports kind %s", kind, img.Kind)
		}
		if img.MIME != MimeSVG {
			t.Errorf("kind %s: unexpected MIME %s", kind, img.MIME)
		}
		if !strings.HasPrefix(string(img.Raw), "<svg") {
			t.Errorf("kind %s: output is not SVG", kind)
		}
		if !strings.HasPrefix(img.DataURI, "data:image/svg+xml;base64,") {
			t.Errorf("kind %s: bad data URI prefix", kind)
		}
	}
}

func TestSynthesizeMany_ProgressInOrder(t *testing.T) {
	synth := NewSynthesizer(zerolog.Nop())

	var kinds []Kind
	for i := 0; i < 8; i++ {
		kinds = append(kinds, AllKinds()...)
	}

	// The callback is serialized by the synthesizer, so plain appends are
	// safe here.
	var seen []int
	images := synth.SynthesizeMany(context.Background(), sampleYears(), sampleScenario(), sampleSummary(),
		kinds, DefaultStyle(), func(done, total int) {
			if total != len(kinds) {
				t.Errorf("total = %d, want %d", total, len(kinds))
			}
			seen = append(seen, done)
		})

	if len(images) != len(kinds) {
		t.Fatalf("got %d images, want %d", len(images), len(kinds))
	}
	for i, d := range seen {
		if d != i+1 {
			t.Fatalf("progress counts delivered out of order: %v", seen)
		}
	}
}

func TestSynthesize_UnknownKind(t *testing.T) {
	_, err := Synthesize(sampleYears(), sampleScenario(), sampleSummary(), Kind("sparkline"), DefaultStyle())
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestSynthesize_EmptyDataStillRendersValidChart(t *testing.T) {
	for _, kind := range AllKinds() {
		img, err := Synthesize(nil, &storage.Scenario{}, projection.Summary{}, kind, DefaultStyle())
		if err != nil {
			t.Fatalf("kind %s: empty input should not fail: %v", kind, err)
		}
		if img.Width <= 0 || img.Height <= 0 {
			t.Errorf("kind %s: empty-data chart has zero dimensions", kind)
		}
		if !strings.HasPrefix(string(img.Raw), "<svg") {
			t.Errorf("kind %s: empty-data output is not SVG", kind)
		}
	}
}

func TestSynthesize_HighContrastPalette(t *testing.T) {
	style := DefaultStyle()
	style.HighContrast = true

	img, err := Synthesize(sampleYears(), sampleScenario(), sampleSummary(), KindPortfolio, style)
	if err != nil {
		t.Fatal(err)
	}

	svg := string(img.Raw)
	if !strings.Contains(svg, "#000000") {
		t.Error("high contrast chart should draw in black")
	}
	if !strings.Contains(svg, "#ffffff") {
		t.Error("high contrast chart should use a white background")
	}
}

func TestSynthesize_TitleEscaped(t *testing.T) {
	style := DefaultStyle()
	style.Title = `<script>"x" & 'y'</script>`

	img, err := Synthesize(sampleYears(), sampleScenario(), sampleSummary(), KindPortfolio, style)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(img.Raw), "<script>") {
		t.Error("chart title was not XML-escaped")
	}
}

func TestAllocationChart_RemainderGoesToCash(t *testing.T) {
	sc := &storage.Scenario{EquitiesPct: 50, BondsPct: 30} // 20 unallocated

	img, err := Synthesize(nil, sc, projection.Summary{}, KindAssetAllocation, DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(img.Raw), "Cash") {
		t.Error("expected unallocated remainder to appear as Cash")
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(KindRiskAnalysis, DefaultStyle())

	if img.Kind != KindRiskAnalysis {
		t.Errorf("unexpected kind %s", img.Kind)
	}
	if !strings.Contains(string(img.Raw), "unavailable") {
		t.Error("placeholder should state the chart is unavailable")
	}
}

func TestKindValidation(t *testing.T) {
	if !KindPortfolio.IsValid() {
		t.Error("portfolio should be a valid kind")
	}
	if Kind("pie3d").IsValid() {
		t.Error("unknown kind should be invalid")
	}
	if len(AllKinds()) != 4 {
		t.Errorf("expected 4 chart kinds, got %d", len(AllKinds()))
	}
}
