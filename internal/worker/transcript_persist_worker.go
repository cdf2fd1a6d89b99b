package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"awsml-tutor/internal/model"
	"awsml-tutor/internal/platform/rabbitmq"
)

var errMalformedTranscript = errors.New("malformed transcript payload")

type TranscriptWriter interface {
	Create(ctx context.Context, t *model.Transcript) error
}

// CacheInvalidator is notified after each write so cached history pages
// pick up the new transcript.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TranscriptPersistWorker drains the transcript queue into the database.
// Undecodable or unwritable deliveries are dropped with a nack.
type TranscriptPersistWorker struct {
	conn      *amqp.Connection
	writer    TranscriptWriter
	cache     CacheInvalidator
	queueName string
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTranscriptPersistWorker(
	conn *amqp.Connection,
	writer TranscriptWriter,
	cache CacheInvalidator,
	queueName string,
	logger *zap.Logger,
) *TranscriptPersistWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptPersistWorker{
		conn:      conn,
		writer:    writer,
		cache:     cache,
		queueName: queueName,
		logger:    logger.Named("transcript_worker"),
	}
}

func (w *TranscriptPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		return err
	}
	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.logger.Warn("delivery channel closed")
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.logger.Error("persist transcript failed", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.logger.Info("worker started", zap.String("queue", w.queueName))
	return nil
}

func (w *TranscriptPersistWorker) handle(ctx context.Context, body []byte) error {
	var t model.Transcript
	if err := json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("%w: %v", errMalformedTranscript, err)
	}
	if t.Question == "" {
		return fmt.Errorf("%w: empty question", errMalformedTranscript)
	}
	t.ID = 0
	if err := w.writer.Create(ctx, &t); err != nil {
		return err
	}
	if w.cache != nil {
		if err := w.cache.Invalidate(ctx); err != nil {
			w.logger.Warn("invalidate transcript cache failed", zap.Error(err))
		}
	}
	return nil
}

func (w *TranscriptPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
