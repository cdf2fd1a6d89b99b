package index

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"awsml-tutor/internal/model"
)

const insertBatchSize = 100

// SQLiteStore keeps entries in a gorm database and scores them by brute
// force cosine similarity at query time.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&model.IndexCollection{}, &model.IndexEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrate index tables failed: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Collection(ctx context.Context, name string) (*CollectionInfo, error) {
	var row model.IndexCollection
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collection failed: %w", err)
	}
	return &CollectionInfo{Name: row.Name, EmbeddingModel: row.EmbeddingModel, Dimension: row.Dimension}, nil
}

func (s *SQLiteStore) EnsureCollection(ctx context.Context, info CollectionInfo) error {
	existing, err := s.Collection(ctx, info.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return checkCompatible(*existing, info)
	}
	row := model.IndexCollection{Name: info.Name, EmbeddingModel: info.EmbeddingModel, Dimension: info.Dimension}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create collection failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, collection string, entries []model.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].Collection = collection
	}
	if err := s.db.WithContext(ctx).CreateInBatches(entries, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert index entries failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.IndexEntry{}).Where("collection = ?", collection).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count index entries failed: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.RetrievalResult, error) {
	var entries []model.IndexEntry
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list index entries failed: %w", err)
	}
	return rankEntries(entries, vector, k), nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
