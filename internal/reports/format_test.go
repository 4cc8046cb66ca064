package reports

import (
	"strings"
	"testing"
	"time"
)

func TestFormatCurrency_BritishPounds(t *testing.T) {
	f := NewFormatter("en-GB", "")

	got := f.FormatCurrency(1234)
	if !strings.Contains(got, "£1,234") {
		t.Errorf("expected £1,234 in output, got %q", got)
	}
}

func TestFormatCurrency_Negative(t *testing.T) {
	f := NewFormatter("en-GB", "")

	got := f.FormatCurrency(-500)
	if got != "-£500" {
		t.Errorf("expected -£500, got %q", got)
	}
}

func TestFormatCurrency_ZeroNeverFails(t *testing.T) {
	for _, locale := range []string{"en-GB", "en-US", "de-DE", "fr-FR", "", "not-a-locale"} {
		f := NewFormatter(locale, "")
		if got := f.FormatCurrency(0); got == "" {
			t.Errorf("locale %q: zero formatted as empty string", locale)
		}
	}
}

func TestFormatCurrency_Override(t *testing.T) {
	f := NewFormatter("en-GB", "usd")

	if f.Currency() != "USD" {
		t.Errorf("expected USD, got %s", f.Currency())
	}
	if got := f.FormatCurrency(10); !strings.HasPrefix(got, "$") {
		t.Errorf("expected dollar prefix, got %q", got)
	}
}

func TestFormatCurrency_EuroInference(t *testing.T) {
	f := NewFormatter("de-DE", "")

	if f.Currency() != "EUR" {
		t.Errorf("non-English locale should infer EUR, got %s", f.Currency())
	}
}

func TestFormatPercent(t *testing.T) {
	f := NewFormatter("en-GB", "")

	got := f.FormatPercent(0.05)
	if got != "5%" {
		t.Errorf("expected 5%%, got %q", got)
	}
}

func TestFormatDate_Locales(t *testing.T) {
	d := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	if got := NewFormatter("en-GB", "").FormatDate(d); got != "7 March 2026" {
		t.Errorf("en-GB: got %q", got)
	}
	if got := NewFormatter("en-US", "").FormatDate(d); got != "March 7, 2026" {
		t.Errorf("en-US: got %q", got)
	}
	if got := NewFormatter("de-DE", "").FormatDate(d); got != "07.03.2026" {
		t.Errorf("de-DE: got %q", got)
	}
}

func TestYesNo_Localized(t *testing.T) {
	if got := NewFormatter("en-GB", "").YesNo(true); got != "Yes" {
		t.Errorf("en: got %q", got)
	}
	if got := NewFormatter("de-DE", "").YesNo(false); got != "Nein" {
		t.Errorf("de: got %q", got)
	}
	if got := NewFormatter("fr-FR", "").YesNo(true); got != "Oui" {
		t.Errorf("fr: got %q", got)
	}
}

func TestNewFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewFormatter("@@invalid@@", "")

	// Must still format without panicking.
	if got := f.FormatCurrency(99); got == "" {
		t.Error("fallback formatter produced empty output")
	}
}
