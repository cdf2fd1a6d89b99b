package app

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"awsml-tutor/internal/chunker"
	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/index"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/source"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *stubGenerator) Model() string { return "stub-model" }

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type memoryTranscripts struct {
	mu    sync.Mutex
	items []model.Transcript
	lists int
}

func (m *memoryTranscripts) Create(_ context.Context, t *model.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *t)
	return nil
}

func (m *memoryTranscripts) ListRecent(_ context.Context, limit int) ([]model.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	items := m.items
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return append([]model.Transcript(nil), items...), nil
}

type memoryCache struct {
	items       []model.Transcript
	hit         bool
	dirty       bool
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]model.Transcript, bool, error) {
	return c.items, c.hit, nil
}

func (c *memoryCache) Set(_ context.Context, items []model.Transcript) error {
	c.items, c.hit = items, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.invalidated++
	c.items, c.hit, c.dirty = nil, false, true
	return nil
}

func (c *memoryCache) IsDirty(context.Context) (bool, error) { return c.dirty, nil }

// keywordEmbedder counts service names, so retrieval follows the topic of
// a question rather than hashed token overlap.
type keywordEmbedder struct{}

var serviceKeywords = []string{"sagemaker", "bedrock", "comprehend", "rekognition", "textract", "lex", "personalize"}

func (keywordEmbedder) ModelID() string { return "keyword-test" }

func (keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(serviceKeywords))
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return (r < 'a' || r > 'z') && (r < '0' || r > '9')
		})
		for _, w := range words {
			for d, kw := range serviceKeywords {
				if w == kw {
					vec[d]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

func sampleIndex(t *testing.T) *index.Index {
	t.Helper()
	ctx := context.Background()
	chunks := chunker.New().Split(source.LoadSampleDocuments())
	ix, err := index.Build(ctx, index.NewMemoryStore(), embedding.Normalized(embedding.NewHashingEmbedder(0)), index.DefaultCollection, chunks)
	require.NoError(t, err)
	return ix
}

func emptyIndex(t *testing.T) *index.Index {
	t.Helper()
	ix, err := index.Open(context.Background(), index.NewMemoryStore(), embedding.NewHashingEmbedder(0), index.DefaultCollection)
	require.NoError(t, err)
	return ix
}
