// Package index embeds chunks and keeps them in a similarity-searchable
// collection. Building is additive: re-running Build on an existing
// collection appends entries without deduplication.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/model"
)

const (
	DefaultCollection = "aws_docs"
	DefaultBatchSize  = embedding.DefaultBatchSize
)

var (
	ErrEmbeddingMismatch = errors.New("collection was built with a different embedding model")
	ErrNoChunks          = errors.New("no chunks to index")
)

// CollectionInfo describes the embedding space of a collection. An empty
// EmbeddingModel means no model was recorded for it.
type CollectionInfo struct {
	Name           string
	EmbeddingModel string
	Dimension      int
}

// Store persists index entries for one or more named collections.
type Store interface {
	// Collection returns nil, nil when the collection does not exist.
	Collection(ctx context.Context, name string) (*CollectionInfo, error)
	EnsureCollection(ctx context.Context, info CollectionInfo) error
	Insert(ctx context.Context, collection string, entries []model.IndexEntry) error
	Count(ctx context.Context, collection string) (int, error)
	// Search returns at most k results by descending similarity, ties in
	// insertion order.
	Search(ctx context.Context, collection string, vector []float32, k int) ([]model.RetrievalResult, error)
	Close() error
}

// Index is a handle on one collection plus the embedder that populated it.
type Index struct {
	store      Store
	embedder   embedding.Embedder
	collection string
	batchSize  int
}

// Empty returns an index with no backing store; Size is 0 and Query
// returns nothing.
func Empty(collection string, embedder embedding.Embedder) *Index {
	return &Index{collection: collection, embedder: embedder, batchSize: DefaultBatchSize}
}

// Open reopens a previously built collection. A nil store or a missing
// collection yields an index of size 0 rather than an error.
func Open(ctx context.Context, store Store, embedder embedding.Embedder, collection string) (*Index, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	ix := Empty(collection, embedder)
	if store == nil {
		return ix, nil
	}
	ix.store = store

	info, err := store.Collection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("open collection %s failed: %w", collection, err)
	}
	if info != nil && info.EmbeddingModel != "" && embedder != nil && info.EmbeddingModel != embedder.ModelID() {
		return nil, fmt.Errorf("%w: collection %s uses %s, embedder is %s",
			ErrEmbeddingMismatch, collection, info.EmbeddingModel, embedder.ModelID())
	}
	return ix, nil
}

// Build embeds every chunk and appends it to the collection.
func Build(ctx context.Context, store Store, embedder embedding.Embedder, collection string, chunks []model.Chunk) (*Index, error) {
	ix, err := Open(ctx, store, embedder, collection)
	if err != nil {
		return nil, err
	}
	if err := ix.Add(ctx, chunks); err != nil {
		return nil, err
	}
	return ix, nil
}

// Add embeds chunks in batches and inserts them.
func (ix *Index) Add(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	if ix.store == nil {
		return errors.New("index has no backing store")
	}

	collectionReady := false
	for i := 0; i < len(chunks); i += ix.batchSize {
		end := i + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks failed: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d want %d", len(vectors), len(batch))
		}

		if !collectionReady {
			if err := ix.store.EnsureCollection(ctx, CollectionInfo{
				Name:           ix.collection,
				EmbeddingModel: ix.embedder.ModelID(),
				Dimension:      len(vectors[0]),
			}); err != nil {
				return err
			}
			collectionReady = true
		}

		entries := make([]model.IndexEntry, len(batch))
		for j, c := range batch {
			entries[j] = model.IndexEntry{
				ChunkID:    uuid.NewString(),
				Collection: ix.collection,
				ChunkIndex: c.Index,
				Text:       c.Text,
			}
			entries[j].SetMetadata(c.Metadata)
			entries[j].SetEmbedding(vectors[j])
		}
		if err := ix.store.Insert(ctx, ix.collection, entries); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of entries in the collection.
func (ix *Index) Size(ctx context.Context) (int, error) {
	if ix == nil || ix.store == nil {
		return 0, nil
	}
	return ix.store.Count(ctx, ix.collection)
}

// Query returns the k entries most similar to vector.
func (ix *Index) Query(ctx context.Context, vector []float32, k int) ([]model.RetrievalResult, error) {
	if ix == nil || ix.store == nil || k <= 0 {
		return []model.RetrievalResult{}, nil
	}
	results, err := ix.store.Search(ctx, ix.collection, vector, k)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.RetrievalResult{}
	}
	return results, nil
}

func (ix *Index) Embedder() embedding.Embedder { return ix.embedder }
func (ix *Index) Collection() string           { return ix.collection }
