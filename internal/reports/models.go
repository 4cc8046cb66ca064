package reports

import (
	"errors"
	"time"

	"github.com/plannetic/advisor-hub/internal/charts"
)

// Report kinds
const (
	KindCashflow    = "cashflow"
	KindSuitability = "suitability"
	KindReview      = "review"
)

// Output formats
const (
	FormatHTML      = "html"
	FormatPDF       = "pdf"
	FormatExcel     = "excel"
	FormatSlidedeck = "slidedeck"
)

// ValidKind reports whether kind is a recognized report kind.
func ValidKind(kind string) bool {
	return kind == KindCashflow || kind == KindSuitability || kind == KindReview
}

// ValidFormat reports whether format is a recognized output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatHTML, FormatPDF, FormatExcel, FormatSlidedeck:
		return true
	}
	return false
}

// Accessibility options applied to templates and chart markup.
type Accessibility struct {
	HighContrast bool   `json:"highContrast"`
	FontSize     string `json:"fontSize"` // small | medium | large
	ScreenReader bool   `json:"screenReader"`
}

// Customizations are optional branding overrides.
type Customizations struct {
	LogoURL        string            `json:"logoUrl,omitempty"`
	ColorOverrides map[string]string `json:"colorOverrides,omitempty"`
	FontOverrides  map[string]string `json:"fontOverrides,omitempty"`
}

// Options configure one report generation.
type Options struct {
	IncludeCharts          bool           `json:"includeCharts"`
	IncludeAssumptions     bool           `json:"includeAssumptions"`
	IncludeRiskAnalysis    bool           `json:"includeRiskAnalysis"`
	IncludeProjectionTable bool           `json:"includeProjectionTable"`
	ReportPeriodYears      int            `json:"reportPeriodYears"`
	OutputFormat           string         `json:"outputFormat"`
	ChartKinds             []charts.Kind  `json:"chartKinds"`
	Locale                 string         `json:"locale"`
	Currency               string         `json:"currency,omitempty"` // overrides locale inference
	Theme                  string         `json:"theme"`              // light | dark | auto
	Accessibility          Accessibility  `json:"accessibility"`
	Customizations         Customizations `json:"customizations"`
}

// DefaultOptions returns the option defaults.
func DefaultOptions() Options {
	return Options{
		IncludeCharts:          true,
		IncludeAssumptions:     true,
		IncludeRiskAnalysis:    true,
		IncludeProjectionTable: true,
		ReportPeriodYears:      20,
		OutputFormat:           FormatHTML,
		ChartKinds:             charts.AllKinds(),
		Locale:                 "en-GB",
		Theme:                  "light",
		Accessibility:          Accessibility{FontSize: "medium"},
	}
}

// Normalized fills unset fields with defaults and drops unknown chart kinds.
func (o Options) Normalized() Options {
	if o.ReportPeriodYears <= 0 {
		o.ReportPeriodYears = 20
	}
	if o.OutputFormat == "" {
		o.OutputFormat = FormatHTML
	}
	if o.Locale == "" {
		o.Locale = "en-GB"
	}
	if o.Theme == "" {
		o.Theme = "light"
	}
	if o.Accessibility.FontSize == "" {
		o.Accessibility.FontSize = "medium"
	}
	if len(o.ChartKinds) == 0 {
		o.ChartKinds = charts.AllKinds()
	} else {
		// Copy rather than filter in place: the request is the caller's.
		kept := make([]charts.Kind, 0, len(o.ChartKinds))
		for _, k := range o.ChartKinds {
			if k.IsValid() {
				kept = append(kept, k)
			}
		}
		o.ChartKinds = kept
	}
	return o
}

// Request is the immutable input of one generation.
type Request struct {
	ScenarioID string  `json:"scenarioId"`
	ReportKind string  `json:"reportKind"`
	Options    Options `json:"options"`
}

// Progress stages, in pipeline order.
const (
	StageInitializing     = "initializing"
	StageGatheringData    = "gathering_data"
	StageGeneratingCharts = "generating_charts"
	StageCreatingDocument = "creating_document"
	StageFinalizing       = "finalizing"
	StageComplete         = "complete"
	StageError            = "error"
)

// Progress is a transient pipeline status event. Percent is monotonically
// non-decreasing within one attempt and resets to 0 when a retry starts.
type Progress struct {
	ReportID        string `json:"reportId"`
	Stage           string `json:"stage"`
	PercentComplete int    `json:"percentComplete"`
	Message         string `json:"message"`
	EstimatedMillis int64  `json:"estimatedMillisRemaining"`
}

// DocumentRef identifies a persisted artifact.
type DocumentRef struct {
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Result is the terminal value of one pipeline invocation. Success implies a
// non-empty DownloadURL or Document reference; failure implies a non-empty
// Error and no document reference.
type Result struct {
	ReportID    string            `json:"reportId"`
	Success     bool              `json:"success"`
	Document    *DocumentRef      `json:"document,omitempty"`
	DownloadURL string            `json:"downloadUrl,omitempty"`
	ChartURLs   map[string]string `json:"chartUrls,omitempty"`
	MetadataID  string            `json:"metadataId,omitempty"`
	Error       string            `json:"error,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// PreviewResult is the outcome of a persistence-free preview run.
type PreviewResult struct {
	Success     bool   `json:"success"`
	HTMLContent string `json:"htmlContent,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Errors
var (
	ErrScenarioNotFound  = errors.New("scenario not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidKind       = errors.New("invalid report kind")
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrFormatUnavailable = errors.New("output format encoder unavailable")
	ErrReportNotFound    = errors.New("report not found")
)
