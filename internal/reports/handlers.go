package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler exposes the report pipeline over HTTP.
type Handler struct {
	service  *Service
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORS is enforced at the router; the upgrade itself accepts any
			// origin the middleware let through.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "reports_http").Logger(),
	}
}

// Routes mounts the report endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/v1/reports", h.HandleGenerate)
	r.Post("/v1/reports/preview", h.HandlePreview)
	r.Get("/v1/reports", h.HandleHistory)
	r.Get("/v1/reports/{id}", h.HandleGet)
	r.Get("/v1/reports/{id}/download", h.HandleDownload)
	r.Get("/v1/reports/{id}/url", h.HandleDownloadURL)
	r.Get("/v1/reports/progress/{reportID}", h.HandleProgress)
}

// HandleGenerate runs POST /v1/reports. With ?async=true the run detaches and
// the response carries just the report ID for progress tracking.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if req.ScenarioID == "" {
		h.sendError(w, http.StatusBadRequest, "missing_scenario", "scenarioId is required")
		return
	}

	if r.URL.Query().Get("async") == "true" {
		reportID := h.service.StartReport(req)
		h.sendJSON(w, http.StatusAccepted, map[string]string{
			"reportId": reportID,
			"status":   "accepted",
		})
		return
	}

	result := h.service.GenerateReport(r.Context(), req, nil)
	h.sendJSON(w, resultStatus(result), result)
}

// resultStatus maps a pipeline outcome onto an HTTP status.
func resultStatus(result *Result) int {
	if result.Success {
		return http.StatusOK
	}
	switch {
	case strings.Contains(result.Error, ErrInvalidKind.Error()),
		strings.Contains(result.Error, ErrInvalidFormat.Error()):
		return http.StatusBadRequest
	case strings.Contains(result.Error, ErrScenarioNotFound.Error()),
		strings.Contains(result.Error, ErrClientNotFound.Error()):
		return http.StatusNotFound
	case strings.Contains(result.Error, ErrFormatUnavailable.Error()):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// HandlePreview runs POST /v1/reports/preview.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	preview := h.service.GenerateReportPreview(r.Context(), req)
	status := http.StatusOK
	if !preview.Success {
		status = http.StatusUnprocessableEntity
	}
	h.sendJSON(w, status, preview)
}

// HandleHistory runs GET /v1/reports?client_id={uuid}&limit=&offset=.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.URL.Query().Get("client_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_client_id", "client_id must be a valid UUID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	history, err := h.service.GetReportHistory(r.Context(), clientID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list report history")
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]interface{}{"reports": history})
}

// HandleGet runs GET /v1/reports/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	meta, err := h.service.GetReportMeta(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to load report metadata")
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load report")
		return
	}

	// Artifact bytes never travel with metadata responses.
	meta.Data = nil
	h.sendJSON(w, http.StatusOK, meta)
}

// HandleDownload runs GET /v1/reports/{id}/download. It serves local-mode
// artifact bytes directly; blob-backed reports redirect to a signed URL.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	meta, err := h.service.GetReportMeta(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load report")
		return
	}

	if meta.ObjectKey != nil {
		url, err := h.service.ReportDownloadURL(r.Context(), id)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to sign download URL")
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to sign download URL")
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	if len(meta.Data) == 0 {
		h.sendError(w, http.StatusGone, "artifact_gone", "Report artifact is no longer available")
		return
	}
	w.Header().Set("Content-Type", sniffContentType(meta.Data))
	w.Header().Set("Content-Length", strconv.Itoa(len(meta.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(meta.Data)
}

// HandleDownloadURL runs GET /v1/reports/{id}/url and re-issues a signed URL.
func (h *Handler) HandleDownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	url, err := h.service.ReportDownloadURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		h.logger.Error().Err(err).Msg("failed to issue download URL")
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to issue download URL")
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]string{"downloadUrl": url})
}

// HandleProgress runs GET /v1/reports/progress/{reportID} as a websocket.
// Each progress event is one JSON message; the socket closes after a terminal
// stage or when the client disconnects.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		h.sendError(w, http.StatusBadRequest, "missing_report_id", "Report ID is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := make(chan Progress, 16)
	unsubscribe := h.service.SubscribeToReportProgress(reportID, func(p Progress) {
		select {
		case events <- p:
		default:
			// Slow consumer; drop rather than block the pipeline.
		}
	})
	defer unsubscribe()

	// Reader goroutine detects client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case p := <-events:
			if err := conn.WriteJSON(p); err != nil {
				return
			}
			if p.Stage == StageComplete || p.Stage == StageError {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, p.Stage))
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// sniffContentType detects the artifact type from known file signatures.
func sniffContentType(data []byte) string {
	switch {
	case len(data) > 4 && string(data[:4]) == "%PDF":
		return "application/pdf"
	case len(data) > 2 && data[0] == 'P' && data[1] == 'K':
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/html; charset=utf-8"
	}
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
