package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEmbedder uses the Gemini embedContent API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	batchSize int
}

func NewGeminiEmbedder(client *genai.Client, model string, batchSize int) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model, batchSize: batchSize}
}

func (e *GeminiEmbedder) ModelID() string { return e.model }

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	return inBatches(texts, e.batchSize, func(batch []string) ([][]float32, error) {
		contents := make([]*genai.Content, 0, len(batch))
		for _, t := range batch {
			contents = append(contents, genai.Text(t)...)
		}
		resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
		if err != nil {
			return nil, fmt.Errorf("gemini embed failed: %w", err)
		}
		out := make([][]float32, 0, len(resp.Embeddings))
		for _, emb := range resp.Embeddings {
			out = append(out, emb.Values)
		}
		return out, nil
	})
}
