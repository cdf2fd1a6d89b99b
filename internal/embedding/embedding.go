// Package embedding turns text into fixed-length vectors. Every provider is
// configured once per process with a model identifier and a normalization
// flag; the same text always maps to the same vector.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"google.golang.org/genai"

	"awsml-tutor/internal/ai"
)

const (
	ProviderONNX    = "onnx"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderHashing = "hashing"

	DefaultBatchSize = 10
)

var ErrEmptyInput = errors.New("embedding input is empty")

// Embedder embeds texts in order. ModelID identifies the embedding space;
// vectors from different model ids must never be compared.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

type Options struct {
	Provider  string
	Model     string
	Normalize bool
	Dimension int
	BatchSize int

	// onnx
	ModelPath     string
	VocabPath     string
	SharedLibPath string
	MaxTokens     int

	// hosted providers
	BaseURL string
	APIKey  string
	GenAI   *genai.Client
}

// New builds the embedder for opts.Provider.
func New(ctx context.Context, opts Options) (Embedder, error) {
	var (
		inner Embedder
		err   error
	)
	switch strings.ToLower(opts.Provider) {
	case ProviderONNX, "":
		inner, err = NewONNXEmbedder(ONNXConfig{
			ModelID:       opts.Model,
			ModelPath:     opts.ModelPath,
			VocabPath:     opts.VocabPath,
			SharedLibPath: opts.SharedLibPath,
			MaxTokens:     opts.MaxTokens,
		})
	case ProviderHashing:
		inner = NewHashingEmbedder(opts.Dimension)
	case ProviderOpenAI:
		inner = NewOpenAIEmbedder(ai.NewOpenAICompatibleClient(ai.ChatConfig{
			BaseURL: opts.BaseURL,
			APIKey:  opts.APIKey,
		}), opts.Model, opts.BatchSize)
	case ProviderGemini:
		client := opts.GenAI
		if client == nil {
			client, err = ai.NewGenAIClient(ctx, opts.APIKey)
			if err != nil {
				return nil, err
			}
		}
		inner = NewGeminiEmbedder(client, opts.Model, opts.BatchSize)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	if opts.Normalize {
		return Normalized(inner), nil
	}
	return inner, nil
}

type normalized struct {
	Embedder
}

// Normalized wraps e so that every returned vector has unit L2 length.
func Normalized(e Embedder) Embedder {
	if _, ok := e.(normalized); ok {
		return e
	}
	return normalized{Embedder: e}
}

// Close releases the wrapped embedder when it holds resources.
func (n normalized) Close() error {
	if c, ok := n.Embedder.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (n normalized) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := n.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	for _, v := range vecs {
		Normalize(v)
	}
	return vecs, nil
}

// Normalize scales v in place to unit length. Zero vectors are left as is.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// CosineSimilarity returns 0 for mismatched or zero vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// inBatches calls fn on consecutive slices of at most size texts.
func inBatches(texts []string, size int, fn func(batch []string) ([][]float32, error)) ([][]float32, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += size {
		end := i + size
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := fn(texts[i:end])
		if err != nil {
			return nil, err
		}
		if len(vecs) != end-i {
			return nil, fmt.Errorf("embedding count mismatch: got %d want %d", len(vecs), end-i)
		}
		out = append(out, vecs...)
	}
	return out, nil
}
