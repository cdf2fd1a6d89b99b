package model

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"time"
)

// IndexCollection records which embedding model populated a collection.
type IndexCollection struct {
	Name           string    `gorm:"primaryKey;size:128" json:"name"`
	EmbeddingModel string    `gorm:"size:255" json:"embedding_model"`
	Dimension      int       `json:"dimension"`
	CreatedAt      time.Time `json:"created_at"`
}

// IndexEntry stores a chunk and its embedding for retrieval.
// The auto-increment ID preserves insertion order for tie breaking.
type IndexEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChunkID    string    `gorm:"size:36;uniqueIndex" json:"chunk_id"`
	Collection string    `gorm:"size:128;not null;index" json:"collection"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Metadata   string    `gorm:"type:text" json:"-"`
	Embedding  []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector decodes the little-endian float32 blob.
func (e *IndexEntry) EmbeddingVector() []float32 {
	n := len(e.Embedding) / 4
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(e.Embedding[i*4:]))
	}
	return vec
}

func (e *IndexEntry) SetEmbedding(vec []float32) {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	e.Embedding = buf
}

// MetadataMap returns the stored metadata; empty on parse error.
func (e *IndexEntry) MetadataMap() map[string]string {
	meta := map[string]string{}
	if e.Metadata == "" {
		return meta
	}
	_ = json.Unmarshal([]byte(e.Metadata), &meta)
	return meta
}

func (e *IndexEntry) SetMetadata(meta map[string]string) {
	if len(meta) == 0 {
		e.Metadata = "{}"
		return
	}
	b, _ := json.Marshal(meta)
	e.Metadata = string(b)
}
