package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"awsml-tutor/internal/index"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/pkg/logger"
	"awsml-tutor/internal/retriever"
)

// TranscriptPublisher hands an answered turn to the persistence pipeline.
type TranscriptPublisher interface {
	Publish(ctx context.Context, t model.Transcript) error
}

// TranscriptCache is the read-through cache in front of the transcript store.
type TranscriptCache interface {
	Get(ctx context.Context) ([]model.Transcript, bool, error)
	Set(ctx context.Context, items []model.Transcript) error
	Invalidate(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

type ChatInput struct {
	Question string
	History  []model.ConversationTurn
}

type ChatResult struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence *float32 `json:"confidence,omitempty"`
}

type ChatService struct {
	index     *index.Index
	retriever *retriever.Retriever
	answers   *AnswerGenerator
	topK      int

	publisher TranscriptPublisher
	cache     TranscriptCache
}

// NewChatService wires the question-answering path. ix may be nil when the
// index failed to load; Ask then reports ErrIndexNotReady.
func NewChatService(ix *index.Index, answers *AnswerGenerator, topK int) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{
		index:     ix,
		retriever: retriever.New(ix),
		answers:   answers,
		topK:      topK,
	}
}

// WithTranscripts enables recording of answered turns.
func (s *ChatService) WithTranscripts(publisher TranscriptPublisher, cache TranscriptCache) *ChatService {
	s.publisher = publisher
	s.cache = cache
	return s
}

func (s *ChatService) Ask(ctx context.Context, input ChatInput) (*ChatResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if s.index == nil {
		return nil, ErrIndexNotReady
	}
	size, err := s.index.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("count index entries failed: %w", err)
	}
	if size == 0 {
		return nil, ErrIndexNotReady
	}
	if s.answers == nil {
		return nil, ErrGeneratorNotReady
	}

	chunks, err := s.retriever.Query(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context failed: %w", err)
	}
	answer, err := s.answers.Answer(ctx, question, chunks, input.History)
	if err != nil {
		return nil, err
	}

	result := &ChatResult{Answer: answer.Text, Sources: answer.Sources}
	if len(chunks) > 0 {
		top := chunks[0].Score
		result.Confidence = &top
	}

	logger.FromContext(ctx).Info("answered question",
		zap.Int("chunks", len(chunks)),
		zap.Int("sources", len(result.Sources)),
		zap.Int("history_turns", len(input.History)),
	)
	s.record(ctx, question, result)
	return result, nil
}

// record is best-effort: a lost transcript never fails the answer.
func (s *ChatService) record(ctx context.Context, question string, result *ChatResult) {
	if s.publisher == nil {
		return
	}
	log := logger.FromContext(ctx)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn("invalidate transcript cache failed", zap.Error(err))
		}
	}
	if err := s.publisher.Publish(ctx, model.Transcript{
		Question:  question,
		Answer:    result.Answer,
		Sources:   result.Sources,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Warn("publish transcript failed", zap.Error(err))
	}
}
