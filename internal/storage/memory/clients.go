package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// ClientMemoryStorage is the in-memory client store.
type ClientMemoryStorage struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*storage.Client
}

// NewClientMemoryStorage creates an empty in-memory client store.
func NewClientMemoryStorage() *ClientMemoryStorage {
	return &ClientMemoryStorage{clients: make(map[uuid.UUID]*storage.Client)}
}

// GetClientByID returns a client by ID.
func (s *ClientMemoryStorage) GetClientByID(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[id]
	if !exists {
		return nil, ErrClientNotFound
	}

	copied := *client
	return &copied, nil
}

// ListClients returns all clients ordered by last name.
func (s *ClientMemoryStorage) ListClients(ctx context.Context) ([]storage.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]storage.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, *c)
	}

	sort.Slice(clients, func(i, j int) bool {
		if clients[i].LastName != clients[j].LastName {
			return clients[i].LastName < clients[j].LastName
		}
		return clients[i].FirstName < clients[j].FirstName
	})

	return clients, nil
}

// CreateClient inserts a new client.
func (s *ClientMemoryStorage) CreateClient(ctx context.Context, client *storage.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	copied := *client
	s.clients[client.ID] = &copied
	return nil
}
