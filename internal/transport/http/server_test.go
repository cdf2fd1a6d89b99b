package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"awsml-tutor/internal/bootstrap"
	"awsml-tutor/internal/chunker"
	"awsml-tutor/internal/config"
	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/index"
	"awsml-tutor/internal/source"
	"awsml-tutor/internal/transport/http/middleware"
	"awsml-tutor/internal/transport/http/response"
)

type stubGenerator struct {
	reply      string
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	return g.reply, nil
}

func (g *stubGenerator) Model() string { return "gemini-2.0-flash" }

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "awsml-tutor", Env: "test", GinMode: gin.TestMode},
		LLM:       config.LLMConfig{Model: "gemini-2.0-flash", MaxHistoryTurns: 6},
		Embedding: config.EmbeddingConfig{Model: "all-MiniLM-L6-v2"},
		Retrieval: config.RetrievalConfig{TopK: 3},
	}
}

func newTestApp(t *testing.T, ix *index.Index, gen *stubGenerator) *bootstrap.App {
	t.Helper()
	a := &bootstrap.App{
		Config:    testConfig(),
		Logger:    zaptest.NewLogger(t),
		Index:     ix,
		StartedAt: time.Now(),
	}
	if gen != nil {
		a.Generator = gen
	}
	if ix != nil {
		a.Embedder = ix.Embedder()
	}
	return a
}

func sampleIndex(t *testing.T) *index.Index {
	t.Helper()
	chunks := chunker.New().Split(source.LoadSampleDocuments())
	ix, err := index.Build(context.Background(), index.NewMemoryStore(),
		embedding.Normalized(embedding.NewHashingEmbedder(0)), index.DefaultCollection, chunks)
	require.NoError(t, err)
	return ix
}

func emptyIndex(t *testing.T) *index.Index {
	t.Helper()
	ix, err := index.Open(context.Background(), index.NewMemoryStore(), embedding.NewHashingEmbedder(0), index.DefaultCollection)
	require.NoError(t, err)
	return ix
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestChatUnavailableWithoutIndex(t *testing.T) {
	for name, ix := range map[string]*index.Index{"uninitialized": nil, "empty": emptyIndex(t)} {
		t.Run(name, func(t *testing.T) {
			gen := &stubGenerator{reply: "fabricated"}
			router := NewRouter(newTestApp(t, ix, gen))

			rec := do(t, router, http.MethodPost, "/chat", map[string]any{"question": "What is Amazon SageMaker?"})
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			body := decode[response.ErrorBody](t, rec)
			assert.Equal(t, response.CodeIndexNotReady, body.Code)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestChatAnswers(t *testing.T) {
	gen := &stubGenerator{reply: "SageMaker is a fully managed machine learning service."}
	router := NewRouter(newTestApp(t, sampleIndex(t), gen))

	rec := do(t, router, http.MethodPost, "/chat", map[string]any{
		"question": "What is Amazon SageMaker?",
		"conversation_history": []map[string]string{
			{"role": "user", "content": "Hi"},
			{"role": "assistant", "content": "Hello!"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, gen.reply, body["answer"])
	sources, ok := body["sources"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, sources)
	assert.LessOrEqual(t, len(sources), 3)
	assert.Contains(t, body, "confidence")
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestChatSkipsMalformedHistoryTurns(t *testing.T) {
	gen := &stubGenerator{reply: "Bedrock serves foundation models."}
	router := NewRouter(newTestApp(t, sampleIndex(t), gen))

	rec := do(t, router, http.MethodPost, "/chat", map[string]any{
		"question": "What is Amazon Bedrock?",
		"conversation_history": []any{
			map[string]any{"role": "user", "content": map[string]any{"text": "nested-content-marker"}},
			map[string]any{"role": 7, "content": "numeric-role-marker"},
			"not a turn",
			map[string]any{"role": "user", "content": "Tell me about foundation models"},
			map[string]any{"role": "assistant", "content": "They are large pretrained models."},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastPrompt, "Student: Tell me about foundation models")
	assert.Contains(t, gen.lastPrompt, "Instructor: They are large pretrained models.")
	assert.NotContains(t, gen.lastPrompt, "nested-content-marker")
	assert.NotContains(t, gen.lastPrompt, "numeric-role-marker")
}

func TestChatRejectsBadPayload(t *testing.T) {
	router := NewRouter(newTestApp(t, sampleIndex(t), &stubGenerator{}))
	rec := do(t, router, http.MethodPost, "/chat", map[string]any{"conversation_history": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeInvalidPayload, decode[response.ErrorBody](t, rec).Code)
}

func TestQuizWellFormed(t *testing.T) {
	items := make([]map[string]any, 5)
	for i := range items {
		items[i] = map[string]any{
			"question":       fmt.Sprintf("Which Bedrock feature %d?", i),
			"options":        []string{"A) Agents", "B) Guardrails", "C) Knowledge bases", "D) Model evaluation"},
			"correct_answer": "A",
			"explanation":    "Agents orchestrate tasks.",
		}
	}
	raw, err := json.Marshal(items)
	require.NoError(t, err)

	router := NewRouter(newTestApp(t, nil, &stubGenerator{reply: string(raw)}))
	rec := do(t, router, http.MethodPost, "/quiz", map[string]any{"topic": "Bedrock", "num_questions": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		Questions []map[string]json.RawMessage `json:"questions"`
	}](t, rec)
	require.Len(t, body.Questions, 5)
	for _, q := range body.Questions {
		assert.Len(t, q, 4)
		for _, key := range []string{"question", "options", "correct_answer", "explanation"} {
			assert.Contains(t, q, key)
		}
	}
}

func TestQuizFallbackAndValidation(t *testing.T) {
	router := NewRouter(newTestApp(t, nil, &stubGenerator{reply: "Sorry, no quiz today."}))

	rec := do(t, router, http.MethodPost, "/quiz", map[string]any{"topic": "Amazon Lex"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]map[string]any](t, rec)
	require.Len(t, body["questions"], 1)
	assert.Equal(t, "B", body["questions"][0]["correct_answer"])

	rec = do(t, router, http.MethodPost, "/quiz", map[string]any{"topic": "Amazon Lex", "num_questions": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/quiz", map[string]any{"difficulty": "easy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizWithoutModel(t *testing.T) {
	router := NewRouter(newTestApp(t, nil, nil))
	rec := do(t, router, http.MethodPost, "/quiz", map[string]any{"topic": "Bedrock"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, response.CodeModelNotReady, decode[response.ErrorBody](t, rec).Code)
}

func TestTopics(t *testing.T) {
	router := NewRouter(newTestApp(t, nil, nil))
	rec := do(t, router, http.MethodGet, "/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string][]string](t, rec)
	assert.Len(t, body, 3)
	assert.Contains(t, body["ai_services"], "Amazon SageMaker")
	assert.Contains(t, body["certifications"], "AWS Certified AI Practitioner")
}

func TestStats(t *testing.T) {
	rec := do(t, NewRouter(newTestApp(t, nil, &stubGenerator{})), http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]string{"error": "Vector store not initialized"}, decode[map[string]string](t, rec))

	rec = do(t, NewRouter(newTestApp(t, emptyIndex(t), &stubGenerator{})), http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "needs_documents", decode[map[string]any](t, rec)["status"])

	rec = do(t, NewRouter(newTestApp(t, sampleIndex(t), &stubGenerator{})), http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Greater(t, body["total_documents"], float64(10))
	assert.Equal(t, "hashing-fnv1a-384", body["embedding_model"])
	assert.Equal(t, "gemini-2.0-flash", body["llm_model"])
}

func TestRootStatus(t *testing.T) {
	rec := do(t, NewRouter(newTestApp(t, nil, nil)), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "AWS AI Learning Platform API", body["message"])
	assert.Equal(t, false, body["rag_initialized"])
	assert.Equal(t, float64(0), body["documents_loaded"])

	rec = do(t, NewRouter(newTestApp(t, sampleIndex(t), nil)), http.MethodGet, "/", nil)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, true, body["rag_initialized"])
	assert.Greater(t, body["documents_loaded"], float64(0))
}

func TestHealthz(t *testing.T) {
	rec := do(t, NewRouter(newTestApp(t, nil, nil)), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, NewRouter(newTestApp(t, sampleIndex(t), nil)), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "awsml-tutor", body["app"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, true, deps["index"].(map[string]any)["ok"])
	assert.NotContains(t, deps, "redis")
}

func TestHistoryDisabled(t *testing.T) {
	rec := do(t, NewRouter(newTestApp(t, nil, nil)), http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, response.CodeTranscriptsDisabled, decode[response.ErrorBody](t, rec).Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	a := newTestApp(t, nil, nil)
	a.Config.CORS.FrontendURL = "https://tutor.example.com"
	router := NewRouter(a)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://tutor.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://tutor.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
