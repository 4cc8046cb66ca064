package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// ScenarioMemoryStorage is the in-memory scenario store.
type ScenarioMemoryStorage struct {
	mu        sync.RWMutex
	scenarios map[uuid.UUID]*storage.Scenario
}

// NewScenarioMemoryStorage creates an empty in-memory scenario store.
func NewScenarioMemoryStorage() *ScenarioMemoryStorage {
	return &ScenarioMemoryStorage{scenarios: make(map[uuid.UUID]*storage.Scenario)}
}

// GetScenario returns a scenario by ID.
func (s *ScenarioMemoryStorage) GetScenario(ctx context.Context, id uuid.UUID) (*storage.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scenario, exists := s.scenarios[id]
	if !exists {
		return nil, ErrScenarioNotFound
	}

	copied := *scenario
	return &copied, nil
}

// ListScenarios returns a client's scenarios, newest first.
func (s *ScenarioMemoryStorage) ListScenarios(ctx context.Context, clientID uuid.UUID) ([]storage.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scenarios []storage.Scenario
	for _, sc := range s.scenarios {
		if sc.ClientID == clientID {
			scenarios = append(scenarios, *sc)
		}
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].CreatedAt.After(scenarios[j].CreatedAt)
	})

	return scenarios, nil
}

// CreateScenario inserts a new scenario.
func (s *ScenarioMemoryStorage) CreateScenario(ctx context.Context, scenario *storage.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}

	now := time.Now()
	scenario.CreatedAt = now
	scenario.UpdatedAt = now

	copied := *scenario
	s.scenarios[scenario.ID] = &copied
	return nil
}
