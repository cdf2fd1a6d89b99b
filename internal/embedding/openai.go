package embedding

import (
	"context"

	"awsml-tutor/internal/ai"
)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint.
type OpenAIEmbedder struct {
	client    *ai.OpenAICompatibleClient
	model     string
	batchSize int
}

func NewOpenAIEmbedder(client *ai.OpenAICompatibleClient, model string, batchSize int) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model, batchSize: batchSize}
}

func (e *OpenAIEmbedder) ModelID() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	return inBatches(texts, e.batchSize, func(batch []string) ([][]float32, error) {
		return e.client.EmbedBatch(ctx, e.model, batch)
	})
}
