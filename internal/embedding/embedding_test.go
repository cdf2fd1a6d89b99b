package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awsml-tutor/internal/ai"
)

func l2norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(0)
	assert.Equal(t, "hashing-fnv1a-384", e.ModelID())

	vecs, err := e.Embed(context.Background(), []string{
		"Amazon SageMaker trains models",
		"Amazon SageMaker trains models",
		"Amazon Lex builds chatbots",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Len(t, vecs[0], DefaultHashingDimension)
	assert.Equal(t, vecs[0], vecs[1])
	assert.NotEqual(t, vecs[0], vecs[2])

	similar := CosineSimilarity(vecs[0], vecs[1])
	different := CosineSimilarity(vecs[0], vecs[2])
	assert.InDelta(t, 1.0, similar, 1e-6)
	assert.Less(t, different, similar)
}

func TestNormalized(t *testing.T) {
	e := Normalized(NewHashingEmbedder(64))
	assert.Equal(t, "hashing-fnv1a-64", e.ModelID())

	vecs, err := e.Embed(context.Background(), []string{"what is amazon bedrock", ""})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l2norm(vecs[0]), 1e-5)
	assert.Equal(t, 0.0, l2norm(vecs[1]))

	assert.Equal(t, e, Normalized(e))
}

type closingEmbedder struct {
	*HashingEmbedder
	closed int
}

func (c *closingEmbedder) Close() error {
	c.closed++
	return nil
}

func TestNormalized_ForwardsClose(t *testing.T) {
	inner := &closingEmbedder{HashingEmbedder: NewHashingEmbedder(8)}
	e := Normalized(inner)

	closer, ok := e.(io.Closer)
	require.True(t, ok)
	require.NoError(t, closer.Close())
	assert.Equal(t, 1, inner.closed)

	plain, ok := Normalized(NewHashingEmbedder(8)).(io.Closer)
	require.True(t, ok)
	assert.NoError(t, plain.Close())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func testVocab() []string {
	return []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "what", "is", "amazon", "sage", "##maker", "?", "cafe", "un", "##able", "日", "本", "語"}
}

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644))
	return path
}

func encodeIDs(t *testing.T, tok *Tokenizer, text string) []int64 {
	t.Helper()
	enc, err := tok.Encode(text)
	require.NoError(t, err)
	return enc.IDs
}

func TestTokenizer_Encode(t *testing.T) {
	tok, err := LoadTokenizer(writeVocab(t, testVocab()), 16)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 4, 5, 6, 7, 8, 9, 3}, encodeIDs(t, tok, "What is Amazon SageMaker?"))
	assert.Equal(t, []int64{2, 10, 3}, encodeIDs(t, tok, "Café"))
	assert.Equal(t, []int64{2, 11, 12, 1, 3}, encodeIDs(t, tok, "unable zebra"))
}

func TestTokenizer_SplitsCJK(t *testing.T) {
	tok, err := LoadTokenizer(writeVocab(t, testVocab()), 16)
	require.NoError(t, err)

	enc, err := tok.Encode("Amazon 日本語")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 6, 13, 14, 15, 3}, enc.IDs)
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 1}, enc.AttentionMask)
	assert.Equal(t, []int64{0, 0, 0, 0, 0, 0}, enc.TypeIDs)
}

func TestTokenizer_Truncates(t *testing.T) {
	tok, err := LoadTokenizer(writeVocab(t, testVocab()), 4)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 4, 5, 3}, encodeIDs(t, tok, "what is amazon what is"))
}

func TestTokenizer_RequiresSpecialTokens(t *testing.T) {
	_, err := LoadTokenizer(writeVocab(t, []string{"[PAD]", "[UNK]", "hello"}), 8)
	assert.Error(t, err)

	_, err = LoadTokenizer(filepath.Join(t.TempDir(), "missing.txt"), 8)
	assert.Error(t, err)
}

func TestMeanPool(t *testing.T) {
	hidden := []float32{
		1, 2, 3,
		3, 4, 5,
	}
	assert.Equal(t, []float32{2, 3, 4}, meanPool(hidden, 2, 3))
}

func TestOpenAIEmbedder_Batches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		type item struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]item, len(body.Input))
		for i, in := range body.Input {
			data[i] = item{Index: i, Embedding: []float32{float32(len(in)), 1}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	client := ai.NewOpenAICompatibleClient(ai.ChatConfig{BaseURL: srv.URL, APIKey: "k"})
	e := NewOpenAIEmbedder(client, "text-embedding", 2)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vecs, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, 5)
	for i, v := range vecs {
		assert.Equal(t, float32(len(texts[i])), v[0], fmt.Sprintf("vector %d", i))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "text-embedding", e.ModelID())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	e, err := New(ctx, Options{Provider: ProviderHashing, Dimension: 32, Normalize: true})
	require.NoError(t, err)
	vecs, err := e.Embed(ctx, []string{"bedrock"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l2norm(vecs[0]), 1e-5)

	_, err = New(ctx, Options{Provider: "word2vec"})
	assert.Error(t, err)

	_, err = New(ctx, Options{Provider: ProviderONNX, ModelPath: filepath.Join(t.TempDir(), "missing.onnx")})
	assert.Error(t, err)
}
