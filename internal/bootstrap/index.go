package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"awsml-tutor/internal/config"
	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/index"
	qdrantClient "awsml-tutor/internal/platform/qdrant"
	sqliteClient "awsml-tutor/internal/platform/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendQdrant = "qdrant"
)

// NewEmbedder builds the configured embedding function. Hosted providers
// fall back to the model credential when no embedding key is set.
func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	apiKey := cfg.Embedding.APIKey
	if apiKey == "" {
		apiKey = cfg.LLM.APIKey
	}
	baseURL := cfg.Embedding.BaseURL
	if baseURL == "" {
		baseURL = cfg.LLM.BaseURL
	}
	embedder, err := embedding.New(ctx, embedding.Options{
		Provider:      cfg.Embedding.Provider,
		Model:         cfg.Embedding.Model,
		Normalize:     cfg.Embedding.Normalize,
		Dimension:     cfg.Embedding.Dimension,
		BatchSize:     cfg.Embedding.BatchSize,
		ModelPath:     cfg.Embedding.ModelPath,
		VocabPath:     cfg.Embedding.VocabPath,
		SharedLibPath: cfg.Embedding.SharedLibPath,
		MaxTokens:     cfg.Embedding.MaxTokens,
		BaseURL:       baseURL,
		APIKey:        apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("init embedding function failed: %w", err)
	}
	return embedder, nil
}

// OpenIndexStore connects the configured index backend.
func OpenIndexStore(ctx context.Context, cfg *config.Config) (index.Store, error) {
	switch strings.ToLower(cfg.Index.Backend) {
	case BackendSQLite, "":
		db, err := sqliteClient.New(ctx, cfg.IndexPath())
		if err != nil {
			return nil, err
		}
		store, err := index.NewSQLiteStore(db)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return store, nil
	case BackendQdrant:
		conn, err := qdrantClient.New(ctx, cfg.Index.QdrantAddr)
		if err != nil {
			return nil, err
		}
		return index.NewQdrantStore(conn), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}
