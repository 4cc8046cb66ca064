package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plannetic/advisor-hub/internal/storage"
)

func newTestHandler(t *testing.T) (http.Handler, *Service, uuid.UUID) {
	t.Helper()

	svc, _, scenarioID := newTestService(t, nil)
	h := NewHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	h.Routes(r)
	return r, svc, scenarioID
}

func postReport(t *testing.T, router http.Handler, path string, req Request) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body)))
	return rec
}

func TestHandleGenerate_Sync(t *testing.T) {
	router, _, scenarioID := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports", Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.DownloadURL == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestHandleGenerate_InvalidKind(t *testing.T) {
	router, _, scenarioID := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports", Request{
		ScenarioID: scenarioID.String(),
		ReportKind: "horoscope",
		Options:    DefaultOptions(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGenerate_MissingScenario(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports", Request{
		ScenarioID: uuid.NewString(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleGenerate_SlidedeckNotConfigured(t *testing.T) {
	router, _, scenarioID := newTestHandler(t)

	opts := DefaultOptions()
	opts.OutputFormat = FormatSlidedeck
	rec := postReport(t, router, "/v1/reports", Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    opts,
	})
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func TestHandleGenerate_Async(t *testing.T) {
	router, _, scenarioID := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports?async=true", Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["reportId"] == "" || resp["status"] != "accepted" {
		t.Errorf("response = %v", resp)
	}
}

func TestHandleGenerate_BadJSON(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reports",
		strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_json") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandlePreview(t *testing.T) {
	router, _, scenarioID := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports/preview", Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var preview PreviewResult
	if err := json.Unmarshal(rec.Body.Bytes(), &preview); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(preview.HTMLContent, "Margaret Holt") {
		t.Error("preview missing client name")
	}
}

func TestHandlePreview_Failure(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := postReport(t, router, "/v1/reports/preview", Request{
		ScenarioID: uuid.NewString(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandleHistoryAndGet(t *testing.T) {
	router, svc, scenarioID := newTestHandler(t)

	// Generate once so history has a row.
	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}, nil)
	if !result.Success {
		t.Fatalf("seed generation failed: %s", result.Error)
	}

	meta, err := svc.GetReportMeta(context.Background(), uuid.MustParse(result.MetadataID))
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/reports?client_id="+meta.ClientID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var listing struct {
		Reports []storage.ReportMeta `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Reports) != 1 {
		t.Errorf("history length = %d, want 1", len(listing.Reports))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/reports/"+result.MetadataID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	// Metadata responses never carry artifact bytes.
	var got storage.ReportMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Data) != 0 {
		t.Error("metadata response leaked artifact bytes")
	}
}

func TestHandleHistory_BadClientID(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reports?client_id=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	router, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/reports/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDownload_LocalMode(t *testing.T) {
	router, svc, scenarioID := newTestHandler(t)

	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}, nil)
	if !result.Success {
		t.Fatalf("seed generation failed: %s", result.Error)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, result.DownloadURL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Margaret Holt") {
		t.Error("downloaded document missing client name")
	}
}

func TestHandleDownloadURL_LocalMode(t *testing.T) {
	router, svc, scenarioID := newTestHandler(t)

	result := svc.GenerateReport(context.Background(), Request{
		ScenarioID: scenarioID.String(),
		ReportKind: KindCashflow,
		Options:    DefaultOptions(),
	}, nil)
	if !result.Success {
		t.Fatalf("seed generation failed: %s", result.Error)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/reports/"+result.MetadataID+"/url", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["downloadUrl"] != result.DownloadURL {
		t.Errorf("downloadUrl = %q, want %q", resp["downloadUrl"], result.DownloadURL)
	}
}

func TestSniffContentType(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{[]byte("%PDF-1.7 rest"), "application/pdf"},
		{[]byte("PK\x03\x04 rest"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{[]byte("<!DOCTYPE html>"), "text/html; charset=utf-8"},
		{nil, "text/html; charset=utf-8"},
	}
	for _, tt := range tests {
		if got := sniffContentType(tt.data); got != tt.want {
			t.Errorf("sniffContentType(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
