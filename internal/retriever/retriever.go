// Package retriever answers similarity queries against an index using the
// same embedder that built it.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"awsml-tutor/internal/index"
	"awsml-tutor/internal/model"
)

type Retriever struct {
	index *index.Index
}

func New(ix *index.Index) *Retriever {
	return &Retriever{index: ix}
}

// Query returns up to k chunks most similar to question. An empty or missing
// index yields an empty result.
func (r *Retriever) Query(ctx context.Context, question string, k int) ([]model.RetrievalResult, error) {
	empty := []model.RetrievalResult{}
	if r == nil || r.index == nil || k <= 0 || strings.TrimSpace(question) == "" {
		return empty, nil
	}
	size, err := r.index.Size(ctx)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return empty, nil
	}

	vectors, err := r.index.Embedder().Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question failed: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed question returned %d vectors", len(vectors))
	}
	return r.index.Query(ctx, vectors[0], k)
}
