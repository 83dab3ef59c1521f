package memory

import (
	"context"
	"sync"

	"scholarship-exam-service/internal/domain"
)

// StateStore holds the language preference and aggregate counters in memory.
type StateStore struct {
	mu    sync.RWMutex
	lang  domain.Language
	stats domain.AggregateStats
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Language(_ context.Context) (domain.Language, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang, nil
}

func (s *StateStore) SetLanguage(_ context.Context, lang domain.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
	return nil
}

func (s *StateStore) Stats(_ context.Context) (domain.AggregateStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *StateStore) RecordOutcome(_ context.Context, passed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Total++
	if passed {
		s.stats.Wins++
	}
	return nil
}

func (s *StateStore) ClearStats(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = domain.AggregateStats{}
	return nil
}
