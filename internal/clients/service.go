package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
)

var (
	ErrEmptyName    = errors.New("client name cannot be empty")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidDate  = errors.New("invalid date of birth")
	ErrNotFound     = storage.ErrClientNotFound
)

// Service holds client CRUD logic over the storage layer.
type Service struct {
	store storage.ClientStorage
}

func NewService(store storage.ClientStorage) *Service {
	return &Service{store: store}
}

// ListClients returns all clients.
func (s *Service) ListClients(ctx context.Context) ([]storage.Client, error) {
	return s.store.ListClients(ctx)
}

// GetClient returns one client or ErrNotFound.
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	return s.store.GetClientByID(ctx, id)
}

// CreateClient validates and inserts a new client.
func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (*storage.Client, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" && last == "" {
		return nil, ErrEmptyName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		var err error
		dob, err = time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.DateOfBirth)
		}
	}

	client := &storage.Client{
		ID:          uuid.New(),
		FirstName:   first,
		LastName:    last,
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: dob,
		AdvisorName: strings.TrimSpace(req.AdvisorName),
		FirmName:    strings.TrimSpace(req.FirmName),
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// toResponse converts a storage record into the outward shape.
func toResponse(c *storage.Client) ClientResponse {
	dob := ""
	if !c.DateOfBirth.IsZero() {
		dob = c.DateOfBirth.Format("2006-01-02")
	}
	return ClientResponse{
		ID:          c.ID.String(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: dob,
		AdvisorName: c.AdvisorName,
		FirmName:    c.FirmName,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
