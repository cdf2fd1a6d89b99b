package app

import (
	"context"

	"go.uber.org/zap"

	"awsml-tutor/internal/model"
	"awsml-tutor/internal/pkg/logger"
)

type TranscriptStore interface {
	Create(ctx context.Context, t *model.Transcript) error
	ListRecent(ctx context.Context, limit int) ([]model.Transcript, error)
}

// HistoryService serves recently answered questions, read through the cache
// unless a write is still settling.
type HistoryService struct {
	store        TranscriptStore
	cache        TranscriptCache
	defaultLimit int
}

func NewHistoryService(store TranscriptStore, cache TranscriptCache, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &HistoryService{store: store, cache: cache, defaultLimit: defaultLimit}
}

func (s *HistoryService) Recent(ctx context.Context, limit int) ([]model.Transcript, error) {
	if s == nil || s.store == nil {
		return nil, ErrTranscriptsDisabled
	}
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	log := logger.FromContext(ctx)
	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx)
		if err == nil && !dirty {
			cached, hit, cacheErr := s.cache.Get(ctx)
			if cacheErr != nil {
				log.Warn("read transcript cache failed", zap.Error(cacheErr))
			}
			if hit {
				return trimTranscripts(cached, limit), nil
			}
		}
	}

	items, err := s.store.ListRecent(ctx, s.defaultLimit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, err := s.cache.IsDirty(ctx); err == nil && !dirty {
			if err := s.cache.Set(ctx, items); err != nil {
				log.Warn("write transcript cache failed", zap.Error(err))
			}
		}
	}
	return trimTranscripts(items, limit), nil
}

// DirectPublisher writes transcripts synchronously when no broker is
// configured.
type DirectPublisher struct {
	store TranscriptStore
}

func NewDirectPublisher(store TranscriptStore) *DirectPublisher {
	return &DirectPublisher{store: store}
}

func (p *DirectPublisher) Publish(ctx context.Context, t model.Transcript) error {
	return p.store.Create(ctx, &t)
}

func trimTranscripts(items []model.Transcript, limit int) []model.Transcript {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[len(items)-limit:]
}
