// Package source produces raw documents from the bundled sample corpus or
// from live documentation pages.
package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"awsml-tutor/internal/model"
)

const (
	DefaultMaxContentLength = 10000
	DefaultFetchTimeout     = 10 * time.Second
	DefaultFetchDelay       = time.Second
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	scrapedCategory = "AWS Documentation"
	scrapedType     = "aws_docs"
	maxBodyBytes    = 20 << 20
)

type FetcherConfig struct {
	UserAgent        string
	Timeout          time.Duration
	Delay            time.Duration
	MaxContentLength int
}

// Fetcher downloads and cleans documentation pages. Failures are logged and
// reported as absent documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxLen    int
	limiter   *rate.Limiter
	logger    *zap.Logger
}

func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = DefaultMaxContentLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxLen:    cfg.MaxContentLength,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// FetchAll fetches every target in order, pausing between requests, and
// returns the documents that could be fetched. A failed target never aborts
// the batch.
func (f *Fetcher) FetchAll(ctx context.Context, targets []Target) []model.Document {
	docs := make([]model.Document, 0, len(targets))
	for _, t := range targets {
		if err := f.limiter.Wait(ctx); err != nil {
			f.logger.Warn("fetch batch interrupted", zap.Error(err))
			break
		}
		doc, ok := f.FetchDocument(ctx, t.URL, t.Service)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// FetchDocument performs a best-effort fetch of url. ok is false on any
// network or parse failure.
func (f *Fetcher) FetchDocument(ctx context.Context, url, service string) (model.Document, bool) {
	title, text, err := f.fetch(ctx, url)
	if err != nil {
		f.logger.Warn("skip document", zap.String("url", url), zap.Error(err))
		return model.Document{}, false
	}
	if text == "" {
		f.logger.Warn("skip document", zap.String("url", url), zap.String("reason", "no text content"))
		return model.Document{}, false
	}
	if title == "" {
		title = url
	}
	return model.Document{
		Text: truncateRunes(text, f.maxLen),
		Metadata: map[string]string{
			model.MetaTitle:     title,
			model.MetaService:   service,
			model.MetaCategory:  scrapedCategory,
			model.MetaSourceURL: url,
			model.MetaType:      scrapedType,
		},
	}, true
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("response status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/pdf" || strings.HasSuffix(strings.ToLower(url), ".pdf") {
		text, err := extractPDFText(body)
		if err != nil {
			return "", "", fmt.Errorf("extract pdf text failed: %w", err)
		}
		return "", text, nil
	}

	title, text, err := CleanHTML(body)
	if err != nil {
		return "", "", fmt.Errorf("parse html failed: %w", err)
	}
	return title, text, nil
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
