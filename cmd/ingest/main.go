// Command ingest loads AWS documentation into the vector index.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/bootstrap"
	"awsml-tutor/internal/chunker"
	"awsml-tutor/internal/config"
	"awsml-tutor/internal/pkg/logger"
	"awsml-tutor/internal/source"
)

const previewLen = 200

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		scrape     bool
		quickStart bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the documentation index",
		Long: "Build the documentation index from the bundled sample documents (default)\n" +
			"or from the live AWS documentation catalog (--scrape).",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if scrape && quickStart {
				return errors.New("--scrape and --quick-start are mutually exclusive")
			}
			mode := app.IngestSamples
			if scrape {
				mode = app.IngestLive
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, mode, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&scrape, "scrape", false, "fetch pages from the live AWS documentation catalog")
	cmd.Flags().BoolVar(&quickStart, "quick-start", false, "index the bundled sample documents (default)")
	return cmd
}

func run(ctx context.Context, mode app.IngestMode, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	embedder, err := bootstrap.NewEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := embedder.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("close embedder failed", zap.Error(err))
			}
		}()
	}
	store, err := bootstrap.OpenIndexStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close index store failed", zap.Error(err))
		}
	}()

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Ingest.ChunkSize),
		chunker.WithOverlap(cfg.Ingest.ChunkOverlap),
	)
	fetcher := source.NewFetcher(source.FetcherConfig{
		UserAgent:        cfg.Ingest.UserAgent,
		Timeout:          cfg.FetchTimeout(),
		Delay:            cfg.FetchDelay(),
		MaxContentLength: cfg.Ingest.MaxContentLength,
	}, log)

	svc := app.NewIngestService(store, embedder, cfg.Index.CollectionName, splitter, fetcher, log)
	report, err := svc.Run(ctx, mode)
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report *app.IngestReport) {
	fmt.Fprintf(out, "Loaded %d documents into %d chunks (index size %d) in %s\n",
		report.Documents, report.Chunks, report.IndexSize, report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Test query %q returned %d results\n", app.SmokeQuestion, len(report.Smoke))
	if len(report.Smoke) > 0 {
		fmt.Fprintf(out, "Top result: %s...\n", preview(report.Smoke[0].Text, previewLen))
	}
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
