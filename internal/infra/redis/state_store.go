package redis

import (
	"context"
	"fmt"
	"strconv"

	"scholarship-exam-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	languageKey   = "exam:language"
	statsTotalKey = "exam:stats:total"
	statsWinsKey  = "exam:stats:wins"
)

// StateStore persists the language preference and the total/wins counters.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Language(ctx context.Context) (domain.Language, error) {
	value, err := s.client.Get(ctx, languageKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read language: %w", err)
	}
	return domain.Language(value), nil
}

func (s *StateStore) SetLanguage(ctx context.Context, lang domain.Language) error {
	if err := s.client.Set(ctx, languageKey, string(lang), 0).Err(); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

func (s *StateStore) Stats(ctx context.Context) (domain.AggregateStats, error) {
	values, err := s.client.MGet(ctx, statsTotalKey, statsWinsKey).Result()
	if err != nil {
		return domain.AggregateStats{}, fmt.Errorf("read stats: %w", err)
	}
	return domain.AggregateStats{
		Total: intValue(values[0]),
		Wins:  intValue(values[1]),
	}, nil
}

func (s *StateStore) RecordOutcome(ctx context.Context, passed bool) error {
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, statsTotalKey)
	if passed {
		pipe.Incr(ctx, statsWinsKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

func (s *StateStore) ClearStats(ctx context.Context) error {
	if err := s.client.Del(ctx, statsTotalKey, statsWinsKey).Err(); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	return nil
}

func intValue(v interface{}) int {
	str, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0
	}
	return n
}
