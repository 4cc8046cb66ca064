package reports

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders currency, percentage, number and date values for one
// locale. Currency is inferred from the locale prefix (en* pays in GBP,
// everything else in EUR) unless an ISO override is given.
type Formatter struct {
	locale   string
	tag      language.Tag
	printer  *message.Printer
	currency string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "en-GB".
// Unparseable locales fall back to British English.
func NewFormatter(locale, currencyOverride string) *Formatter {
	if locale == "" {
		locale = "en-GB"
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BritishEnglish
	}

	cur := strings.ToUpper(strings.TrimSpace(currencyOverride))
	if cur == "" {
		if strings.HasPrefix(strings.ToLower(locale), "en") {
			cur = "GBP"
		} else {
			cur = "EUR"
		}
	}

	return &Formatter{
		locale:   locale,
		tag:      tag,
		printer:  message.NewPrinter(tag),
		currency: cur,
	}
}

// Locale returns the formatter's locale string.
func (f *Formatter) Locale() string { return f.locale }

// Currency returns the ISO currency code in use.
func (f *Formatter) Currency() string { return f.currency }

func (f *Formatter) symbol() string {
	switch f.currency {
	case "GBP":
		return "£"
	case "EUR":
		return "€"
	case "USD":
		return "$"
	}
	return f.currency + " "
}

// FormatCurrency renders a monetary amount with locale grouping and zero
// decimal places: FormatCurrency(1234) in en-GB yields "£1,234".
func (f *Formatter) FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := f.printer.Sprintf("%v", number.Decimal(v,
		number.MaxFractionDigits(0),
		number.MinFractionDigits(0)))

	if neg {
		return "-" + f.symbol() + s
	}
	return f.symbol() + s
}

// FormatNumber renders a plain number with locale grouping.
func (f *Formatter) FormatNumber(v float64, decimals int) string {
	return f.printer.Sprintf("%v", number.Decimal(v,
		number.MaxFractionDigits(decimals),
		number.MinFractionDigits(decimals)))
}

// FormatPercent renders a ratio as a percentage: 0.05 yields "5%".
func (f *Formatter) FormatPercent(v float64) string {
	return f.printer.Sprintf("%v", number.Percent(v,
		number.MaxFractionDigits(1)))
}

// FormatDate renders a date in the locale's long form.
func (f *Formatter) FormatDate(t time.Time) string {
	lower := strings.ToLower(f.locale)
	switch {
	case strings.HasPrefix(lower, "en-us"):
		return t.Format("January 2, 2006")
	case strings.HasPrefix(lower, "en"):
		return t.Format("2 January 2006")
	default:
		return t.Format("02.01.2006")
	}
}

// YesNo renders a localized boolean for display fields.
func (f *Formatter) YesNo(v bool) string {
	base, _ := f.tag.Base()
	switch base.String() {
	case "de":
		if v {
			return "Ja"
		}
		return "Nein"
	case "fr":
		if v {
			return "Oui"
		}
		return "Non"
	case "es":
		if v {
			return "Sí"
		}
		return "No"
	default:
		if v {
			return "Yes"
		}
		return "No"
	}
}
