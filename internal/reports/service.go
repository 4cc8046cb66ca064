package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/plannetic/advisor-hub/internal/charts"
	"github.com/plannetic/advisor-hub/internal/config"
	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
	"github.com/plannetic/advisor-hub/internal/templates"
)

// Service orchestrates the report pipeline: load data, run the projection,
// synthesize charts, populate the template, encode and persist the artifact,
// record metadata.
type Service struct {
	store       storage.Storage
	engine      projection.Engine
	synth       *charts.Synthesizer
	emitter     *Emitter
	broadcaster *Broadcaster
	cfg         config.ReportConfig
	logger      zerolog.Logger
}

func NewService(store storage.Storage, engine projection.Engine, synth *charts.Synthesizer, emitter *Emitter, cfg config.ReportConfig, logger zerolog.Logger) *Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseMillis <= 0 {
		cfg.RetryBaseMillis = 1000
	}
	return &Service{
		store:       store,
		engine:      engine,
		synth:       synth,
		emitter:     emitter,
		broadcaster: NewBroadcaster(),
		cfg:         cfg,
		logger:      logger.With().Str("component", "reports").Logger(),
	}
}

// NewReportID builds a human-scannable report identifier.
func NewReportID(kind, scenarioID string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", kind, scenarioID, at.UnixMilli())
}

// SubscribeToReportProgress attaches fn to a running (or upcoming) report's
// progress stream. The returned function detaches it.
func (s *Service) SubscribeToReportProgress(reportID string, fn ProgressFunc) func() {
	return s.broadcaster.Subscribe(reportID, fn)
}

// GenerateReport runs the full pipeline for one request. It never returns a
// Go error: every outcome is expressed in the Result so callers get a uniform
// shape. Transient failures are retried with exponential backoff; progress
// resets to zero when a retry starts. Missing scenarios and clients fail
// immediately without retrying.
func (s *Service) GenerateReport(ctx context.Context, req Request, onProgress ProgressFunc) *Result {
	reportID := NewReportID(req.ReportKind, req.ScenarioID, time.Now().UTC())
	return s.generate(ctx, reportID, req, onProgress)
}

// StartReport launches generation in the background and returns the report ID
// immediately so callers can attach to its progress stream. The run detaches
// from the request context; its outcome lands in the metadata store and on
// the progress stream.
func (s *Service) StartReport(req Request) string {
	reportID := NewReportID(req.ReportKind, req.ScenarioID, time.Now().UTC())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.generate(ctx, reportID, req, nil)
	}()
	return reportID
}

func (s *Service) generate(ctx context.Context, reportID string, req Request, onProgress ProgressFunc) *Result {
	if !ValidKind(req.ReportKind) {
		return s.fail(reportID, onProgress, fmt.Errorf("%w: %q", ErrInvalidKind, req.ReportKind))
	}
	options := req.Options.Normalized()
	if !ValidFormat(options.OutputFormat) {
		return s.fail(reportID, onProgress, fmt.Errorf("%w: %q", ErrInvalidFormat, options.OutputFormat))
	}
	scenarioID, err := uuid.Parse(req.ScenarioID)
	if err != nil {
		return s.fail(reportID, onProgress, fmt.Errorf("%w: bad scenario id %q", ErrScenarioNotFound, req.ScenarioID))
	}

	var result *Result
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxRetries),
		retry.NewExponential(time.Duration(s.cfg.RetryBaseMillis)*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.logger.Warn().Str("report_id", reportID).Int("attempt", attempt).Msg("retrying report generation")
		}

		r, runErr := s.runOnce(ctx, reportID, req.ReportKind, scenarioID, options, onProgress)
		if runErr != nil {
			if isTerminal(runErr) {
				return runErr
			}
			return retry.RetryableError(runErr)
		}
		result = r
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("report_id", reportID).Int("attempts", attempt).Msg("report generation failed")
		return s.fail(reportID, onProgress, err)
	}

	return result
}

// isTerminal reports whether err can never succeed on retry.
func isTerminal(err error) bool {
	return errors.Is(err, ErrScenarioNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrFormatUnavailable)
}

func (s *Service) fail(reportID string, onProgress ProgressFunc, err error) *Result {
	s.emit(onProgress, Progress{
		ReportID:        reportID,
		Stage:           StageError,
		PercentComplete: 0,
		Message:         err.Error(),
	})
	return &Result{
		ReportID:    reportID,
		Success:     false,
		Error:       err.Error(),
		GeneratedAt: time.Now().UTC(),
	}
}

func (s *Service) emit(onProgress ProgressFunc, p Progress) {
	if onProgress != nil {
		onProgress(p)
	}
	s.broadcaster.Publish(p)
}

// runOnce is a single pipeline attempt. Progress starts from zero so a retry
// visibly restarts the stream.
func (s *Service) runOnce(ctx context.Context, reportID, kind string, scenarioID uuid.UUID, options Options, onProgress ProgressFunc) (*Result, error) {
	attemptStart := time.Now()
	emit := func(stage string, pct int, msg string) {
		// Remaining time extrapolated from elapsed time at the current
		// percentage. Rough, but good enough to drive a progress bar.
		var est int64
		if pct > 0 && pct < 100 {
			elapsed := time.Since(attemptStart).Milliseconds()
			est = elapsed * int64(100-pct) / int64(pct)
		}
		s.emit(onProgress, Progress{
			ReportID:        reportID,
			Stage:           stage,
			PercentComplete: pct,
			Message:         msg,
			EstimatedMillis: est,
		})
	}

	emit(StageInitializing, 0, "Starting report generation")

	emit(StageGatheringData, 10, "Loading scenario and client data")
	scenario, err := s.store.Scenarios().GetScenario(ctx, scenarioID)
	if err != nil {
		if errors.Is(err, storage.ErrScenarioNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, scenarioID)
		}
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	client, err := s.store.Clients().GetClientByID(ctx, scenario.ClientID)
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, scenario.ClientID)
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	projResult, err := s.engine.Project(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	// Chart synthesis occupies the 30-70 band, scaled by per-chart progress.
	var images []charts.Image
	if options.IncludeCharts {
		emit(StageGeneratingCharts, 30, "Generating charts")
		style := chartStyle(options)
		images = s.synth.SynthesizeMany(ctx, projResult.Years, scenario, projResult.Summary, options.ChartKinds, style,
			func(done, total int) {
				if total == 0 {
					return
				}
				pct := 30 + (40*done)/total
				emit(StageGeneratingCharts, pct, fmt.Sprintf("Generated %d of %d charts", done, total))
			})
	}

	emit(StageCreatingDocument, 70, "Creating document")
	generatedAt := time.Now().UTC()
	markup := s.renderMarkup(kind, client, scenario, projResult, options, images, generatedAt)

	doc := &Document{
		Kind:        kind,
		Markup:      markup,
		Client:      client,
		Scenario:    scenario,
		Result:      projResult,
		Options:     options,
		GeneratedAt: generatedAt,
	}
	artifact, err := s.emitter.Emit(ctx, options.OutputFormat, doc)
	if err != nil {
		return nil, err
	}

	emit(StageFinalizing, 85, "Uploading document")
	objectKey := s.emitter.ObjectKey(client.ID, kind, artifact.Ext, generatedAt)
	size, downloadURL, err := s.emitter.Persist(ctx, objectKey, artifact)
	if err != nil {
		return nil, err
	}

	meta := &storage.ReportMeta{
		ID:                uuid.New(),
		ScenarioID:        scenario.ID,
		ClientID:          client.ID,
		ReportKind:        kind,
		Version:           1,
		FileSize:          size,
		Language:          options.Locale,
		AccessibilityFlag: options.Accessibility.HighContrast || options.Accessibility.ScreenReader,
		CreatedBy:         s.cfg.CreatedBy,
	}
	if s.emitter.LocalMode() {
		meta.Data = artifact.Bytes
	} else {
		meta.ObjectKey = &objectKey
	}

	// Metadata is best effort: a persisted artifact with a missing row is
	// preferable to failing the whole run after the upload succeeded.
	metadataID := ""
	if err := s.store.Reports().CreateReportMeta(ctx, meta); err != nil {
		s.logger.Warn().Err(err).Str("report_id", reportID).Msg("failed to record report metadata")
	} else {
		metadataID = meta.ID.String()
	}

	if s.emitter.LocalMode() && metadataID != "" {
		downloadURL = "/v1/reports/" + metadataID + "/download"
	}

	emit(StageComplete, 100, "Report ready")

	chartURLs := make(map[string]string, len(images))
	for _, img := range images {
		chartURLs[string(img.Kind)] = img.DataURI
	}

	return &Result{
		ReportID: reportID,
		Success:  true,
		Document: &DocumentRef{
			ObjectKey:   objectKey,
			ContentType: artifact.ContentType,
			Size:        size,
		},
		DownloadURL: downloadURL,
		ChartURLs:   chartURLs,
		MetadataID:  metadataID,
		GeneratedAt: generatedAt,
	}, nil
}

// renderMarkup selects the template for the kind, builds the variable map and
// populates it.
func (s *Service) renderMarkup(kind string, client *storage.Client, scenario *storage.Scenario, projResult *projection.Result, options Options, images []charts.Image, generatedAt time.Time) string {
	tpl := templates.Select(kind, templates.StyleOptions{
		Theme:        options.Theme,
		HighContrast: options.Accessibility.HighContrast,
		FontSize:     options.Accessibility.FontSize,
		Colors:       options.Customizations.ColorOverrides,
		Fonts:        options.Customizations.FontOverrides,
	})
	vars := BuildVariables(kind, client, scenario, projResult, options, images, s.cfg.FirmName, generatedAt)
	return templates.Populate(tpl, vars)
}

func chartStyle(options Options) charts.Style {
	style := charts.DefaultStyle()
	style.Theme = options.Theme
	style.HighContrast = options.Accessibility.HighContrast
	return style
}

// GenerateReportPreview renders the HTML document without persisting
// anything. Chart failures degrade to labeled placeholders so the preview
// always shows the full layout.
func (s *Service) GenerateReportPreview(ctx context.Context, req Request) *PreviewResult {
	if !ValidKind(req.ReportKind) {
		return &PreviewResult{Success: false, Error: fmt.Sprintf("invalid report kind %q", req.ReportKind)}
	}
	options := req.Options.Normalized()

	scenarioID, err := uuid.Parse(req.ScenarioID)
	if err != nil {
		return &PreviewResult{Success: false, Error: "scenario not found"}
	}
	scenario, err := s.store.Scenarios().GetScenario(ctx, scenarioID)
	if err != nil {
		return &PreviewResult{Success: false, Error: "scenario not found"}
	}
	client, err := s.store.Clients().GetClientByID(ctx, scenario.ClientID)
	if err != nil {
		return &PreviewResult{Success: false, Error: "client not found"}
	}
	projResult, err := s.engine.Project(ctx, scenario)
	if err != nil {
		return &PreviewResult{Success: false, Error: "projection failed"}
	}

	var images []charts.Image
	if options.IncludeCharts {
		style := chartStyle(options)
		for _, kind := range options.ChartKinds {
			img, err := s.synth.Synthesize(projResult.Years, scenario, projResult.Summary, kind, style)
			if err != nil {
				img = charts.Placeholder(kind, style)
			}
			images = append(images, *img)
		}
	}

	markup := s.renderMarkup(req.ReportKind, client, scenario, projResult, options, images, time.Now().UTC())
	return &PreviewResult{Success: true, HTMLContent: markup}
}

// GetReportHistory returns a client's report metadata, newest first.
func (s *Service) GetReportHistory(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Reports().ListReportMeta(ctx, clientID, limit, offset)
}

// GetReportMeta returns one report's metadata.
func (s *Service) GetReportMeta(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.store.Reports().GetReportMeta(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return meta, nil
}

// ReportDownloadURL re-issues a time-limited download URL for a stored
// report. Local-mode reports are served through the download endpoint.
func (s *Service) ReportDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	meta, err := s.GetReportMeta(ctx, id)
	if err != nil {
		return "", err
	}
	if meta.ObjectKey == nil {
		return "/v1/reports/" + meta.ID.String() + "/download", nil
	}
	return s.emitter.SignedURL(ctx, *meta.ObjectKey)
}
