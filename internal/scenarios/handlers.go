package scenarios

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes scenario CRUD over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the scenario endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/v1/scenarios", h.HandleList)
	r.Post("/v1/scenarios", h.HandleCreate)
	r.Get("/v1/scenarios/{id}", h.HandleGet)
}

// HandleList runs GET /v1/scenarios?client_id={uuid}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.URL.Query().Get("client_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_client_id", "client_id must be a valid UUID")
		return
	}

	list, err := h.service.ListScenarios(r.Context(), clientID)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list scenarios")
		return
	}

	resp := ScenariosResponse{Scenarios: make([]ScenarioResponse, 0, len(list))}
	for i := range list {
		resp.Scenarios = append(resp.Scenarios, toResponse(&list[i]))
	}
	h.sendJSON(w, http.StatusOK, resp)
}

// HandleGet runs GET /v1/scenarios/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid scenario ID")
		return
	}

	scenario, err := h.service.GetScenario(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Scenario not found")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load scenario")
		return
	}

	h.sendJSON(w, http.StatusOK, toResponse(scenario))
}

// HandleCreate runs POST /v1/scenarios.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	scenario, err := h.service.CreateScenario(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			h.sendError(w, http.StatusBadRequest, "empty_name", "Scenario name cannot be empty")
		case errors.Is(err, ErrInvalidKind):
			h.sendError(w, http.StatusBadRequest, "invalid_kind", "Kind must be retirement, accumulation or drawdown")
		case errors.Is(err, ErrInvalidAges):
			h.sendError(w, http.StatusBadRequest, "invalid_ages", "Ages must be ordered: current <= retirement <= life expectancy")
		case errors.Is(err, ErrInvalidClient):
			h.sendError(w, http.StatusBadRequest, "invalid_client_id", "clientId must be a valid UUID")
		case errors.Is(err, ErrClientNotFound):
			h.sendError(w, http.StatusNotFound, "client_not_found", "Client not found")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to create scenario")
		}
		return
	}

	h.sendJSON(w, http.StatusCreated, toResponse(scenario))
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
