package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"awsml-tutor/internal/model"
)

const (
	transcriptKey      = "tutor:transcripts"
	transcriptDirtyKey = "tutor:transcripts:dirty"
)

// TranscriptCache keeps the last rendered history page in redis. A dirty
// marker set on every write keeps readers from caching a stale page while
// the persist worker catches up.
type TranscriptCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewTranscriptCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *TranscriptCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &TranscriptCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *TranscriptCache) Get(ctx context.Context) ([]model.Transcript, bool, error) {
	raw, err := c.client.Get(ctx, transcriptKey).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get transcripts failed: %w", err)
	}

	var items []model.Transcript
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached transcripts failed: %w", err)
	}
	return items, true, nil
}

func (c *TranscriptCache) Set(ctx context.Context, items []model.Transcript) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal transcripts failed: %w", err)
	}
	if err := c.client.Set(ctx, transcriptKey, payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set transcripts failed: %w", err)
	}
	return nil
}

func (c *TranscriptCache) Invalidate(ctx context.Context) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, transcriptDirtyKey, "1", c.dirtyMarkerTTL)
	pipe.Del(ctx, transcriptKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate transcripts failed: %w", err)
	}
	return nil
}

func (c *TranscriptCache) IsDirty(ctx context.Context) (bool, error) {
	exists, err := c.client.Exists(ctx, transcriptDirtyKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}
