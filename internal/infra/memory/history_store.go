package memory

import (
	"context"
	"sync"

	"scholarship-exam-service/internal/domain"
)

// HistoryStore keeps the bounded newest-first outcome log in process memory.
// It mirrors the Redis store's contract for redis-less deployments and tests.
type HistoryStore struct {
	mu      sync.RWMutex
	limit   int
	records []domain.HistoryRecord
}

func NewHistoryStore(limit int) *HistoryStore {
	if limit <= 0 {
		limit = 10
	}
	return &HistoryStore{limit: limit}
}

func (s *HistoryStore) Append(_ context.Context, record domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.HistoryRecord{record}, s.records...)
	if len(s.records) > s.limit {
		s.records = s.records[:s.limit]
	}
	return nil
}

func (s *HistoryStore) ReadAll(_ context.Context) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
