package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/cache"
	mysqlClient "awsml-tutor/internal/platform/mysql"
	rabbitmqClient "awsml-tutor/internal/platform/rabbitmq"
	redisClient "awsml-tutor/internal/platform/redis"
	sqliteClient "awsml-tutor/internal/platform/sqlite"
	"awsml-tutor/internal/repository"
	"awsml-tutor/internal/worker"
)

// openTranscripts connects the transcript database (required once enabled)
// plus the optional redis cache and rabbitmq queue. Without a broker,
// transcripts are written synchronously.
func (a *App) openTranscripts(ctx context.Context) error {
	cfg := a.Config

	switch strings.ToLower(cfg.Transcript.Driver) {
	case "mysql":
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return err
		}
		a.TranscriptDB = db
	case "sqlite", "":
		db, err := sqliteClient.New(ctx, cfg.Transcript.SQLitePath)
		if err != nil {
			return err
		}
		a.TranscriptDB = db
	default:
		return fmt.Errorf("unknown transcript driver %q", cfg.Transcript.Driver)
	}

	a.Transcripts = repository.NewTranscriptRepository(a.TranscriptDB)
	if err := a.Transcripts.AutoMigrate(); err != nil {
		return err
	}

	if cfg.Redis.Addr != "" {
		client, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Logger.Warn("redis unavailable, history served uncached", zap.Error(err))
		} else {
			a.Redis = client
			a.TranscriptCache = cache.NewTranscriptCache(
				client,
				time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
				time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
			)
		}
	}

	a.Publisher = app.NewDirectPublisher(a.Transcripts)
	if cfg.RabbitMQ.URL == "" {
		return nil
	}
	conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		a.Logger.Warn("rabbitmq unavailable, writing transcripts inline", zap.Error(err))
		return nil
	}
	a.MQConn = conn

	var invalidator worker.CacheInvalidator
	if a.TranscriptCache != nil {
		invalidator = a.TranscriptCache
	}
	w := worker.NewTranscriptPersistWorker(conn, a.Transcripts, invalidator, cfg.RabbitMQ.TranscriptQueue, a.Logger)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start transcript worker failed: %w", err)
	}
	a.TranscriptWorker = w
	a.Publisher = rabbitmqClient.NewTranscriptPublisher(conn, cfg.RabbitMQ.TranscriptQueue)
	return nil
}
