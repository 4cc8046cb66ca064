package reports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/charts"
	"github.com/plannetic/advisor-hub/internal/config"
	"github.com/plannetic/advisor-hub/internal/projection"
	"github.com/plannetic/advisor-hub/internal/storage"
	"github.com/plannetic/advisor-hub/internal/storage/memory"
)

// flakyEngine fails a fixed number of times before delegating to the real
// engine. failEvery=-1 means fail always.
type flakyEngine struct {
	inner    projection.Engine
	failures int
	calls    int
}

func (e *flakyEngine) Project(ctx context.Context, scenario *storage.Scenario) (*projection.Result, error) {
	e.calls++
	if e.failures < 0 || e.calls <= e.failures {
		return nil, errors.New("engine unavailable")
	}
	return e.inner.Project(ctx, scenario)
}

func newTestService(t *testing.T, engine projection.Engine) (*Service, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()

	store := memory.New()
	ctx := context.Background()

	client := testClient()
	if err := store.Clients().CreateClient(ctx, client); err != nil {
		t.Fatal(err)
	}
	scenario := testScenario(client.ID)
	if err := store.Scenarios().CreateScenario(ctx, scenario); err != nil {
		t.Fatal(err)
	}

	if engine == nil {
		engine = projection.NewCompoundEngine()
	}

	logger := zerolog.Nop()
	synth := charts.NewSynthesizer(logger)
	emitter := NewEmitter(nil, 0, "", logger) // no blob store = local mode

	cfg := config.ReportConfig{
		MaxRetries:      2,
		RetryBaseMillis: 1,
		CreatedBy:       "test",
		FirmName:        "Plannetic",
	}
	svc := NewService(store, engine, synth, emitter, cfg, logger)
	return svc, store, scenario.ID
}

func TestGenerateReport_HTMLHappyPath(t *testing.T) {
	svc, store, scenarioID := newTestService(t, nil)

	req := Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}

	var stages []string
	result := svc.GenerateReport(context.Background(), req, func(p Progress) {
		stages = append(stages, p.Stage)
	})

	if !result.Success {
		t.Fatalf("generation failed: %s", result.Error)
	}
	if result.DownloadURL == "" {
		t.Error("expected a download URL")
	}
	if result.MetadataID == "" {
		t.Fatal("expected a metadata row")
	}
	if result.Document == nil || result.Document.ContentType != "text/html; charset=utf-8" {
		t.Errorf("document ref = %+v", result.Document)
	}
	if len(result.ChartURLs) != len(DefaultOptions().ChartKinds) {
		t.Errorf("chart URLs = %d, want one per chart kind", len(result.ChartURLs))
	}
	for kind, uri := range result.ChartURLs {
		if !strings.HasPrefix(uri, "data:image/") {
			t.Errorf("chart %s: URL %q is not a data URI", kind, uri)
		}
	}

	// Local mode keeps the artifact bytes on the metadata row.
	metaID, err := uuid.Parse(result.MetadataID)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := store.Reports().GetReportMeta(context.Background(), metaID)
	if err != nil {
		t.Fatal(err)
	}
	html := string(meta.Data)
	if !strings.Contains(html, "Margaret Holt") {
		t.Error("rendered document missing the client name")
	}
	if strings.Contains(html, "{{") {
		t.Error("rendered document leaks unresolved placeholders")
	}

	wantOrder := []string{StageInitializing, StageGatheringData, StageGeneratingCharts, StageCreatingDocument, StageFinalizing, StageComplete}
	assertStageOrder(t, stages, wantOrder)
}

func assertStageOrder(t *testing.T, got, want []string) {
	t.Helper()
	i := 0
	for _, s := range got {
		if i < len(want) && s == want[i] {
			i++
		}
	}
	if i != len(want) {
		t.Errorf("progress stages %v do not contain the pipeline order %v", got, want)
	}
}

func TestGenerateReport_RetriesTransientFailures(t *testing.T) {
	engine := &flakyEngine{inner: projection.NewCompoundEngine(), failures: 2}
	svc, _, scenarioID := newTestService(t, engine)

	req := Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}
	result := svc.GenerateReport(context.Background(), req, nil)

	if !result.Success {
		t.Fatalf("expected success after retries, got: %s", result.Error)
	}
	if engine.calls != 3 {
		t.Errorf("engine called %d times, want 3", engine.calls)
	}
}

func TestGenerateReport_RetryBudgetExhausted(t *testing.T) {
	engine := &flakyEngine{failures: -1}
	svc, _, scenarioID := newTestService(t, engine)

	req := Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}
	result := svc.GenerateReport(context.Background(), req, nil)

	if result.Success {
		t.Fatal("expected failure")
	}
	// One initial attempt plus MaxRetries.
	if engine.calls != 3 {
		t.Errorf("engine called %d times, want 3", engine.calls)
	}
	if !strings.Contains(result.Error, "engine unavailable") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestGenerateReport_MissingScenarioFailsWithoutRetry(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	req := Request{
		ScenarioID: uuid.NewString(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}

	gathering := 0
	result := svc.GenerateReport(context.Background(), req, func(p Progress) {
		if p.Stage == StageGatheringData {
			gathering++
		}
	})

	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "scenario not found") {
		t.Errorf("error = %q", result.Error)
	}
	if gathering != 1 {
		t.Errorf("gathering stage seen %d times, want 1 (no retry on missing data)", gathering)
	}
}

func TestGenerateReport_InvalidKindAndFormat(t *testing.T) {
	svc, _, scenarioID := newTestService(t, nil)

	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: "astrology",
		Options:    DefaultOptions(),
	}, nil)
	if result.Success || !strings.Contains(result.Error, "invalid report kind") {
		t.Errorf("kind: success=%v error=%q", result.Success, result.Error)
	}

	opts := DefaultOptions()
	opts.OutputFormat = "papyrus"
	result = svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    opts,
	}, nil)
	if result.Success || !strings.Contains(result.Error, "invalid output format") {
		t.Errorf("format: success=%v error=%q", result.Success, result.Error)
	}
}

func TestGenerateReport_SlidedeckUnavailableDoesNotRetry(t *testing.T) {
	engine := &flakyEngine{inner: projection.NewCompoundEngine()}
	svc, _, scenarioID := newTestService(t, engine)

	opts := DefaultOptions()
	opts.OutputFormat = FormatSlidedeck

	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindReview,
		Options:    opts,
	}, nil)

	if result.Success {
		t.Fatal("expected failure with no slide encoder configured")
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1 (unavailable format is terminal)", engine.calls)
	}
}

func TestGenerateReport_SlideRendererFailureIsRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			http.Error(w, "renderer overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("PK deck bytes"))
	}))
	defer srv.Close()

	store := memory.New()
	ctx := context.Background()
	client := testClient()
	if err := store.Clients().CreateClient(ctx, client); err != nil {
		t.Fatal(err)
	}
	scenario := testScenario(client.ID)
	if err := store.Scenarios().CreateScenario(ctx, scenario); err != nil {
		t.Fatal(err)
	}

	logger := zerolog.Nop()
	emitter := NewEmitter(nil, 0, srv.URL, logger)
	cfg := config.ReportConfig{MaxRetries: 2, RetryBaseMillis: 1, CreatedBy: "test", FirmName: "Plannetic"}
	svc := NewService(store, projection.NewCompoundEngine(), charts.NewSynthesizer(logger), emitter, cfg, logger)

	opts := DefaultOptions()
	opts.OutputFormat = FormatSlidedeck

	result := svc.GenerateReport(ctx, Request{
		ScenarioID: scenario.ID.String(),
		ReportKind: KindReview,
		Options:    opts,
	}, nil)

	if !result.Success {
		t.Fatalf("generation failed: %s", result.Error)
	}
	if calls != 3 {
		t.Errorf("renderer called %d times, want 3 (two failures then success)", calls)
	}
}

func TestGenerateReport_PDF(t *testing.T) {
	svc, _, scenarioID := newTestService(t, nil)

	opts := DefaultOptions()
	opts.OutputFormat = FormatPDF

	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    opts,
	}, nil)

	if !result.Success {
		t.Fatalf("pdf generation failed: %s", result.Error)
	}
	if result.Document.ContentType != "application/pdf" {
		t.Errorf("content type = %q", result.Document.ContentType)
	}
	if !strings.HasSuffix(result.Document.ObjectKey, ".pdf") {
		t.Errorf("object key = %q", result.Document.ObjectKey)
	}
}

func TestGenerateReportPreview(t *testing.T) {
	svc, _, scenarioID := newTestService(t, nil)

	preview := svc.GenerateReportPreview(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindSuitability,
		Options:    DefaultOptions(),
	})

	if !preview.Success {
		t.Fatalf("preview failed: %s", preview.Error)
	}
	if !strings.Contains(preview.HTMLContent, "Margaret Holt") {
		t.Error("preview missing client name")
	}
	if !strings.Contains(preview.HTMLContent, "Suitability Report") {
		t.Error("preview missing report title")
	}
}

func TestGenerateReportPreview_MissingScenario(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	preview := svc.GenerateReportPreview(context.Background(), Request{
		ScenarioID: uuid.NewString(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})
	if preview.Success || preview.Error != "scenario not found" {
		t.Errorf("success=%v error=%q", preview.Success, preview.Error)
	}
}

func TestStartReport_PublishesProgress(t *testing.T) {
	svc, store, scenarioID := newTestService(t, nil)

	req := Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}

	done := make(chan Progress, 64)
	reportID := svc.StartReport(req)
	if reportID == "" {
		t.Fatal("expected a report id")
	}
	unsubscribe := svc.SubscribeToReportProgress(reportID, func(p Progress) {
		done <- p
	})
	defer unsubscribe()

	// The run may have raced ahead of the subscription, so also accept the
	// metadata row landing in the store as completion.
	scenario, err := store.Scenarios().GetScenario(context.Background(), scenarioID)
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.After(10 * time.Second)
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case p := <-done:
			if p.ReportID != reportID {
				t.Fatalf("progress for %q, want %q", p.ReportID, reportID)
			}
			if p.Stage == StageComplete {
				return
			}
			if p.Stage == StageError {
				t.Fatalf("generation failed: %s", p.Message)
			}
		case <-poll.C:
			history, err := store.Reports().ListReportMeta(context.Background(), scenario.ClientID, 10, 0)
			if err == nil && len(history) > 0 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for completion")
		}
	}
}

func TestGetReportHistory_LimitClamped(t *testing.T) {
	svc, store, scenarioID := newTestService(t, nil)
	ctx := context.Background()

	scenario, err := store.Scenarios().GetScenario(ctx, scenarioID)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		meta := &storage.ReportMeta{
			ID:         uuid.New(),
			ScenarioID: scenario.ID,
			ClientID:   scenario.ClientID,
			ReportKind: KindCashflow,
			Version:    1,
		}
		if err := store.Reports().CreateReportMeta(ctx, meta); err != nil {
			t.Fatal(err)
		}
	}

	history, err := svc.GetReportHistory(ctx, scenario.ClientID, -5, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Errorf("history length = %d, want 3", len(history))
	}
}

func TestGetReportMeta_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.GetReportMeta(context.Background(), uuid.New())
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestNewReportID(t *testing.T) {
	at := time.UnixMilli(1700000000000).UTC()
	id := NewReportID(KindCashflow, "abc", at)
	if id != "cashflow-abc-1700000000000" {
		t.Errorf("id = %q", id)
	}
}
