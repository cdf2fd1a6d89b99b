package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"awsml-tutor/internal/model"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>What is Amazon Textract?</title>
  <style>body { color: red; }</style>
  <script>var tracking = true;</script>
</head>
<body>
  <nav>Home | Services | Pricing</nav>
  <h1>What is   Amazon Textract?</h1>
  <p>Amazon Textract extracts
     text and data.</p>
  <footer>Copyright Amazon</footer>
</body>
</html>`

func TestLoadSampleDocuments(t *testing.T) {
	docs := LoadSampleDocuments()
	require.Len(t, docs, 10)

	services := map[string]int{}
	for _, d := range docs {
		assert.NotEmpty(t, d.Text)
		assert.Equal(t, strings.TrimSpace(d.Text), d.Text)
		for _, key := range []string{model.MetaTitle, model.MetaService, model.MetaCategory, model.MetaSourceURL} {
			assert.NotEmpty(t, d.Metadata[key], "missing %s", key)
		}
		services[d.Metadata[model.MetaService]]++
	}
	assert.Equal(t, 3, services["SageMaker"])
	assert.Equal(t, "https://docs.aws.amazon.com/sagemaker/", docs[0].Source())
}

func TestCleanHTML(t *testing.T) {
	title, text, err := CleanHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "What is Amazon Textract?", title)
	assert.Contains(t, text, "What is Amazon Textract? Amazon Textract extracts text and data.")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "Pricing")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "  ")
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, samplePage)
		case "/long":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", strings.Repeat("é", 50))
		case "/empty":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><script>x()</script></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{MaxContentLength: 20}, zap.NewNop())
	ctx := context.Background()

	t.Run("cleans and labels page", func(t *testing.T) {
		full := NewFetcher(FetcherConfig{}, zap.NewNop())
		doc, ok := full.FetchDocument(ctx, srv.URL+"/page", "textract")
		require.True(t, ok)
		assert.Equal(t, "What is Amazon Textract?", doc.Metadata[model.MetaTitle])
		assert.Equal(t, "textract", doc.Metadata[model.MetaService])
		assert.Equal(t, "AWS Documentation", doc.Metadata[model.MetaCategory])
		assert.Equal(t, srv.URL+"/page", doc.Metadata[model.MetaSourceURL])
		assert.Equal(t, "aws_docs", doc.Metadata[model.MetaType])
		assert.Contains(t, doc.Text, "Amazon Textract extracts text and data.")
	})

	t.Run("truncates long content", func(t *testing.T) {
		doc, ok := f.FetchDocument(ctx, srv.URL+"/long", "lex")
		require.True(t, ok)
		assert.Equal(t, strings.Repeat("é", 20), doc.Text)
		assert.Equal(t, srv.URL+"/long", doc.Metadata[model.MetaTitle])
	})

	t.Run("not found is absent", func(t *testing.T) {
		_, ok := f.FetchDocument(ctx, srv.URL+"/missing", "lex")
		assert.False(t, ok)
	})

	t.Run("page without text is absent", func(t *testing.T) {
		_, ok := f.FetchDocument(ctx, srv.URL+"/empty", "lex")
		assert.False(t, ok)
	})

	t.Run("unreachable host is absent", func(t *testing.T) {
		_, ok := f.FetchDocument(ctx, "http://127.0.0.1:1/nothing", "lex")
		assert.False(t, ok)
	})
}

func TestFetchDocument_PDF(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "sagemaker.pdf"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guide":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(fixture)
		case "/corrupt":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(append([]byte("%PDF-1.4\n"), fixture[200:260]...))
		case "/download.pdf":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(fixture)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{}, zap.NewNop())
	ctx := context.Background()

	t.Run("extracts text by content type", func(t *testing.T) {
		doc, ok := f.FetchDocument(ctx, srv.URL+"/guide", "sagemaker")
		require.True(t, ok)
		assert.Contains(t, doc.Text, "SageMaker")
		assert.Equal(t, srv.URL+"/guide", doc.Metadata[model.MetaTitle])
		assert.Equal(t, "sagemaker", doc.Metadata[model.MetaService])
	})

	t.Run("extracts text by extension", func(t *testing.T) {
		doc, ok := f.FetchDocument(ctx, srv.URL+"/download.pdf", "sagemaker")
		require.True(t, ok)
		assert.Contains(t, doc.Text, "SageMaker")
	})

	t.Run("corrupt pdf is absent", func(t *testing.T) {
		_, ok := f.FetchDocument(ctx, srv.URL+"/corrupt", "sagemaker")
		assert.False(t, ok)
	})
}

func TestExtractPDFText_Empty(t *testing.T) {
	text, err := extractPDFText(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = extractPDFText(strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestFetchAll_SkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "<html><head><title>%s</title></head><body><p>content</p></body></html>", r.URL.Path)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{}, zap.NewNop())
	docs := f.FetchAll(context.Background(), []Target{
		{Service: "sagemaker", URL: srv.URL + "/one"},
		{Service: "bedrock", URL: srv.URL + "/bad"},
		{Service: "lex", URL: srv.URL + "/two"},
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "sagemaker", docs[0].Metadata[model.MetaService])
	assert.Equal(t, "lex", docs[1].Metadata[model.MetaService])
}

func TestDocumentationTargets(t *testing.T) {
	assert.Len(t, DocumentationTargets, 10)
	for _, target := range DocumentationTargets {
		assert.True(t, strings.HasPrefix(target.URL, "https://docs.aws.amazon.com/"))
	}
}
