package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/routinely/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// History implements ports.HistoryStore as a Redis list, newest first,
// trimmed to domain.MaxHistoryEntries on every append.
type History struct {
	client *backend.Client
	prefix string
}

// NewHistory creates a Redis history store from an existing client.
func NewHistory(client *backend.Client, opts ...Option) *History {
	c := applyOptions(opts)
	return &History{client: client, prefix: c.prefix}
}

func (h *History) key() string {
	return h.prefix + "history"
}

// Append pushes a record to the front and trims the list to the cap.
func (h *History) Append(ctx context.Context, rec domain.HistoryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	pipe := h.client.Pipeline()
	pipe.LPush(ctx, h.key(), data)
	pipe.LTrim(ctx, h.key(), 0, int64(domain.MaxHistoryEntries-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history to redis: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (h *History) List(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit - 1)
	}

	vals, err := h.client.LRange(ctx, h.key(), 0, end).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history from redis: %w", err)
	}

	records := make([]domain.HistoryRecord, 0, len(vals))
	for _, val := range vals {
		var rec domain.HistoryRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
