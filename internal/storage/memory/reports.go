package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
)

// ReportMetaMemoryStorage is the in-memory report metadata store.
type ReportMetaMemoryStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*storage.ReportMeta
}

// NewReportMetaMemoryStorage creates an empty in-memory report metadata store.
func NewReportMetaMemoryStorage() *ReportMetaMemoryStorage {
	return &ReportMetaMemoryStorage{reports: make(map[uuid.UUID]*storage.ReportMeta)}
}

// CreateReportMeta inserts metadata for a completed report.
func (s *ReportMetaMemoryStorage) CreateReportMeta(ctx context.Context, meta *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.Version == 0 {
		meta.Version = 1
	}

	now := time.Now()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	copied := *meta
	s.reports[meta.ID] = &copied
	return nil
}

// GetReportMeta returns metadata by report ID.
func (s *ReportMetaMemoryStorage) GetReportMeta(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, exists := s.reports[id]
	if !exists {
		return nil, ErrReportNotFound
	}

	copied := *meta
	return &copied, nil
}

// ListReportMeta returns a client's report history, newest first.
func (s *ReportMetaMemoryStorage) ListReportMeta(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.ReportMeta
	for _, m := range s.reports {
		if m.ClientID == clientID {
			filtered = append(filtered, *m)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := offset
	if start > len(filtered) {
		return []storage.ReportMeta{}, nil
	}

	end := start + limit
	if limit <= 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}
