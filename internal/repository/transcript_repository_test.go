package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awsml-tutor/internal/model"
	"awsml-tutor/internal/platform/sqlite"
)

func newTestRepo(t *testing.T) *TranscriptRepository {
	t.Helper()
	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "transcripts.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := NewTranscriptRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestListRecentReturnsNewestOldestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &model.Transcript{
			Question:  fmt.Sprintf("q%d", i),
			Answer:    fmt.Sprintf("a%d", i),
			Sources:   []string{fmt.Sprintf("https://example.com/%d", i)},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "q2", items[0].Question)
	assert.Equal(t, "q4", items[2].Question)
	assert.Equal(t, []string{"https://example.com/4"}, items[2].Sources)
}

func TestListRecentEmpty(t *testing.T) {
	repo := newTestRepo(t)
	items, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
