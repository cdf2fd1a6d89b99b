package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"awsml-tutor/internal/ai"
	"awsml-tutor/internal/app"
	"awsml-tutor/internal/cache"
	"awsml-tutor/internal/config"
	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/index"
	"awsml-tutor/internal/repository"
	"awsml-tutor/internal/worker"
)

// App is the process-wide context handed to the router. Index is nil when
// the index could not be opened; the server then runs degraded.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Generator ai.Generator

	Embedder   embedding.Embedder
	IndexStore index.Store
	Index      *index.Index

	TranscriptDB     *gorm.DB
	Transcripts      *repository.TranscriptRepository
	Redis            *redis.Client
	TranscriptCache  *cache.TranscriptCache
	MQConn           *amqp.Connection
	Publisher        app.TranscriptPublisher
	TranscriptWorker *worker.TranscriptPersistWorker

	StartedAt time.Time
}

// New validates cfg and connects every collaborator. A missing model
// credential is fatal; an unusable index is not.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	generator, err := ai.NewGenerator(ctx, ai.GeneratorConfig{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init language model failed: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Generator: generator,
		StartedAt: time.Now(),
	}

	if err := a.openIndex(ctx); err != nil {
		logger.Warn("index unavailable, serving in degraded mode", zap.Error(err))
	} else if n, err := a.Index.Size(ctx); err == nil {
		logger.Info("index loaded",
			zap.String("collection", a.Index.Collection()),
			zap.String("embedding_model", a.Embedder.ModelID()),
			zap.Int("documents", n),
		)
		if n == 0 {
			logger.Warn("index is empty, run the ingest command to load documents")
		}
	}

	if cfg.Transcript.Enabled {
		if err := a.openTranscripts(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) openIndex(ctx context.Context) error {
	embedder, err := NewEmbedder(ctx, a.Config)
	if err != nil {
		return err
	}
	a.Embedder = embedder

	store, err := OpenIndexStore(ctx, a.Config)
	if err != nil {
		return err
	}
	ix, err := index.Open(ctx, store, embedder, a.Config.Index.CollectionName)
	if err != nil {
		_ = store.Close()
		return err
	}
	a.IndexStore = store
	a.Index = ix
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if closer, ok := a.Publisher.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		errs = append(errs, a.MQConn.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.TranscriptDB != nil {
		if sqlDB, err := a.TranscriptDB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if a.IndexStore != nil {
		errs = append(errs, a.IndexStore.Close())
	}
	if closer, ok := a.Embedder.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}
