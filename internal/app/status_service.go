package app

import (
	"context"

	"go.uber.org/zap"

	"awsml-tutor/internal/index"
	"awsml-tutor/internal/pkg/logger"
)

const (
	StatsHealthy        = "healthy"
	StatsNeedsDocuments = "needs_documents"
)

type IndexStatus struct {
	Initialized bool
	Documents   int
}

type Stats struct {
	TotalDocuments int    `json:"total_documents"`
	Status         string `json:"status"`
	EmbeddingModel string `json:"embedding_model"`
	LLMModel       string `json:"llm_model"`
}

// StatusService reports index readiness for the status endpoints.
type StatusService struct {
	index          *index.Index
	embeddingModel string
	llmModel       string
}

func NewStatusService(ix *index.Index, embeddingModel, llmModel string) *StatusService {
	return &StatusService{index: ix, embeddingModel: embeddingModel, llmModel: llmModel}
}

// Status never fails; a count error is logged and reported as zero documents.
func (s *StatusService) Status(ctx context.Context) IndexStatus {
	if s.index == nil {
		return IndexStatus{}
	}
	n, err := s.index.Size(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("count index entries failed", zap.Error(err))
		n = 0
	}
	return IndexStatus{Initialized: true, Documents: n}
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	if s.index == nil {
		return nil, ErrIndexNotReady
	}
	n, err := s.index.Size(ctx)
	if err != nil {
		return nil, err
	}
	status := StatsNeedsDocuments
	if n > 0 {
		status = StatsHealthy
	}
	return &Stats{
		TotalDocuments: n,
		Status:         status,
		EmbeddingModel: s.embeddingModel,
		LLMModel:       s.llmModel,
	}, nil
}
