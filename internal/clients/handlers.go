package clients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes client CRUD over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the client endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/v1/clients", h.HandleList)
	r.Post("/v1/clients", h.HandleCreate)
	r.Get("/v1/clients/{id}", h.HandleGet)
}

// HandleList runs GET /v1/clients.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListClients(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list clients")
		return
	}

	resp := ClientsResponse{Clients: make([]ClientResponse, 0, len(list))}
	for i := range list {
		resp.Clients = append(resp.Clients, toResponse(&list[i]))
	}
	h.sendJSON(w, http.StatusOK, resp)
}

// HandleGet runs GET /v1/clients/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid client ID")
		return
	}

	client, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Client not found")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to load client")
		return
	}

	h.sendJSON(w, http.StatusOK, toResponse(client))
}

// HandleCreate runs POST /v1/clients.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	client, err := h.service.CreateClient(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			h.sendError(w, http.StatusBadRequest, "empty_name", "Client name cannot be empty")
		case errors.Is(err, ErrInvalidEmail):
			h.sendError(w, http.StatusBadRequest, "invalid_email", "Email address is not valid")
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Date of birth must be YYYY-MM-DD")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to create client")
		}
		return
	}

	h.sendJSON(w, http.StatusCreated, toResponse(client))
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
