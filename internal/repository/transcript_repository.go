package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"awsml-tutor/internal/model"
)

const maxTranscriptPage = 200

type TranscriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&model.Transcript{}); err != nil {
		return fmt.Errorf("migrate transcripts failed: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) Create(ctx context.Context, t *model.Transcript) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create transcript failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest limit transcripts, oldest first.
func (r *TranscriptRepository) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	if limit <= 0 || limit > maxTranscriptPage {
		limit = 50
	}

	var items []model.Transcript
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list transcripts failed: %w", err)
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}
