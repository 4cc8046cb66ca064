package templates

import (
	"strings"
	"testing"
)

func TestSelect_KnownKinds(t *testing.T) {
	for _, kind := range []string{KindCashflow, KindSuitability, KindReview} {
		tpl := Select(kind, StyleOptions{})
		if !strings.Contains(tpl, "<!DOCTYPE html>") {
			t.Errorf("kind %s: template is not a full document", kind)
		}
		if !strings.Contains(tpl, "{{CLIENT_NAME}}") {
			t.Errorf("kind %s: template missing client placeholder", kind)
		}
	}
}

func TestSelect_UnknownKindFallsBackToCashflow(t *testing.T) {
	unknown := Select("bogus", StyleOptions{})
	cashflow := Select(KindCashflow, StyleOptions{})

	if unknown != cashflow {
		t.Error("unknown kind should fall back to the cash-flow template")
	}
}

func TestSelect_HighContrastStyling(t *testing.T) {
	plain := Select(KindCashflow, StyleOptions{Theme: "light"})
	hc := Select(KindCashflow, StyleOptions{Theme: "light", HighContrast: true})

	if plain == hc {
		t.Error("high contrast should change the stylesheet")
	}
}

func TestSelect_FontSize(t *testing.T) {
	small := Select(KindCashflow, StyleOptions{FontSize: "small"})
	large := Select(KindCashflow, StyleOptions{FontSize: "large"})

	if small == large {
		t.Error("font size option should change the stylesheet")
	}
}

func TestSelect_BrandingOverrides(t *testing.T) {
	tpl := Select(KindCashflow, StyleOptions{
		Colors: map[string]string{"accent": "#b91c1c", "border": "#fecaca"},
		Fonts:  map[string]string{"family": "Georgia,serif"},
	})

	if !strings.Contains(tpl, "--accent:#b91c1c;") {
		t.Error("accent override missing from stylesheet")
	}
	if !strings.Contains(tpl, "--border:#fecaca;") {
		t.Error("border override missing from stylesheet")
	}
	if !strings.Contains(tpl, "--font:Georgia,serif;") {
		t.Error("font family override missing from stylesheet")
	}
}

func TestSelect_BrandingOverrideRejectsUnsafeValues(t *testing.T) {
	tpl := Select(KindCashflow, StyleOptions{
		Colors: map[string]string{"accent": "red;}</style><script>"},
	})

	if strings.Contains(tpl, "<script>") {
		t.Error("unsafe color value reached the stylesheet")
	}
	if !strings.Contains(tpl, "--accent:#2563eb;") {
		t.Error("rejected override should keep the default accent")
	}
}

func TestSelect_HighContrastWinsOverColorOverrides(t *testing.T) {
	tpl := Select(KindCashflow, StyleOptions{
		HighContrast: true,
		Colors:       map[string]string{"text": "#888888"},
	})

	if !strings.Contains(tpl, "--text:#000000;") {
		t.Error("high contrast should override branding colors")
	}
}

func TestSelect_PopulatesCleanly(t *testing.T) {
	tpl := Select(KindCashflow, StyleOptions{})
	out := Populate(tpl, VariableMap{
		"REPORT_TITLE": "Cash Flow Report",
		"CLIENT_NAME":  "Margaret Holt",
	})

	// Unset flags remove their regions and unmatched placeholders render
	// empty, so no template syntax may survive population.
	if strings.Contains(out, "{{") || strings.Contains(out, "}}") {
		t.Errorf("template syntax leaked into populated document")
	}
	if !strings.Contains(out, "Margaret Holt") {
		t.Error("client name missing from populated document")
	}
}
