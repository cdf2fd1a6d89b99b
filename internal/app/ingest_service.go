package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"awsml-tutor/internal/chunker"
	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/index"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/retriever"
	"awsml-tutor/internal/source"
)

const (
	SmokeQuestion = "What is Amazon SageMaker?"
	smokeTopK     = 2
)

var ErrNoDocuments = errors.New("no documents collected")

type IngestMode string

const (
	IngestSamples IngestMode = "samples"
	IngestLive    IngestMode = "live"
)

type IngestReport struct {
	Mode      IngestMode
	Documents int
	Chunks    int
	IndexSize int
	Smoke     []model.RetrievalResult
	Elapsed   time.Duration
}

// IngestService collects documents, chunks them and appends them to the
// index, then runs a smoke query against the result.
type IngestService struct {
	store      index.Store
	embedder   embedding.Embedder
	collection string
	splitter   *chunker.Splitter
	fetcher    *source.Fetcher
	targets    []source.Target
	logger     *zap.Logger
}

func NewIngestService(
	store index.Store,
	embedder embedding.Embedder,
	collection string,
	splitter *chunker.Splitter,
	fetcher *source.Fetcher,
	logger *zap.Logger,
) *IngestService {
	if splitter == nil {
		splitter = chunker.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		store:      store,
		embedder:   embedder,
		collection: collection,
		splitter:   splitter,
		fetcher:    fetcher,
		targets:    source.DocumentationTargets,
		logger:     logger.Named("ingest"),
	}
}

// WithTargets overrides the live documentation catalog.
func (s *IngestService) WithTargets(targets []source.Target) *IngestService {
	s.targets = targets
	return s
}

func (s *IngestService) Run(ctx context.Context, mode IngestMode) (*IngestReport, error) {
	started := time.Now()

	docs, err := s.collect(ctx, mode)
	if err != nil {
		return nil, err
	}
	s.logger.Info("documents collected", zap.String("mode", string(mode)), zap.Int("documents", len(docs)))

	chunks := s.splitter.Split(docs)
	s.logger.Info("documents chunked",
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", s.splitter.ChunkSize()),
		zap.Int("overlap", s.splitter.Overlap()),
	)

	ix, err := index.Build(ctx, s.store, s.embedder, s.collection, chunks)
	if err != nil {
		return nil, fmt.Errorf("build index failed: %w", err)
	}
	size, err := ix.Size(ctx)
	if err != nil {
		return nil, err
	}

	smoke, err := retriever.New(ix).Query(ctx, SmokeQuestion, smokeTopK)
	if err != nil {
		return nil, fmt.Errorf("smoke query failed: %w", err)
	}

	report := &IngestReport{
		Mode:      mode,
		Documents: len(docs),
		Chunks:    len(chunks),
		IndexSize: size,
		Smoke:     smoke,
		Elapsed:   time.Since(started),
	}
	s.logger.Info("index built",
		zap.String("collection", s.collection),
		zap.Int("index_size", size),
		zap.Int("smoke_hits", len(smoke)),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (s *IngestService) collect(ctx context.Context, mode IngestMode) ([]model.Document, error) {
	switch mode {
	case IngestSamples, "":
		return source.LoadSampleDocuments(), nil
	case IngestLive:
		if s.fetcher == nil {
			return nil, fmt.Errorf("%w: live ingest needs a fetcher", ErrInvalidInput)
		}
		docs := s.fetcher.FetchAll(ctx, s.targets)
		if len(docs) == 0 {
			return nil, ErrNoDocuments
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("%w: unknown ingest mode %q", ErrInvalidInput, mode)
	}
}
