package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"scholarship-exam-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const historyKey = "exam:history"

// HistoryStore keeps the bounded outcome log as a Redis list, newest first.
// Append is LPUSH + LTRIM so the trim to the retention limit happens in the
// same pipeline as the write.
type HistoryStore struct {
	client *redis.Client
	limit  int
}

func NewHistoryStore(client *redis.Client, limit int) *HistoryStore {
	if limit <= 0 {
		limit = 10
	}
	return &HistoryStore{client: client, limit: limit}
}

func (s *HistoryStore) Append(ctx context.Context, record domain.HistoryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, int64(s.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *HistoryStore) ReadAll(ctx context.Context) ([]domain.HistoryRecord, error) {
	raw, err := s.client.LRange(ctx, historyKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	records := make([]domain.HistoryRecord, 0, len(raw))
	for _, item := range raw {
		var record domain.HistoryRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("unmarshal history record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, historyKey).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
