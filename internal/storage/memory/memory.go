package memory

import (
	"github.com/plannetic/advisor-hub/internal/storage"
)

// Aliased so call sites inside the package stay short.
var (
	ErrClientNotFound   = storage.ErrClientNotFound
	ErrScenarioNotFound = storage.ErrScenarioNotFound
	ErrReportNotFound   = storage.ErrReportNotFound
)

// MemoryStorage implements storage.Storage entirely in process memory.
// Used when no DATABASE_URL is configured and in tests.
type MemoryStorage struct {
	clients   *ClientMemoryStorage
	scenarios *ScenarioMemoryStorage
	reports   *ReportMetaMemoryStorage
}

// New creates an empty in-memory storage.
func New() *MemoryStorage {
	return &MemoryStorage{
		clients:   NewClientMemoryStorage(),
		scenarios: NewScenarioMemoryStorage(),
		reports:   NewReportMetaMemoryStorage(),
	}
}

func (s *MemoryStorage) Clients() storage.ClientStorage     { return s.clients }
func (s *MemoryStorage) Scenarios() storage.ScenarioStorage { return s.scenarios }
func (s *MemoryStorage) Reports() storage.ReportMetaStorage { return s.reports }

func (s *MemoryStorage) Close() error { return nil }
