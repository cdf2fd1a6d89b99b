package index

import (
	"sort"

	"awsml-tutor/internal/embedding"
	"awsml-tutor/internal/model"
)

// rankEntries scores entries (given in insertion order) against vector and
// returns the top k. The sort is stable so equal scores keep insertion order.
func rankEntries(entries []model.IndexEntry, vector []float32, k int) []model.RetrievalResult {
	results := make([]model.RetrievalResult, len(entries))
	for i := range entries {
		results[i] = model.RetrievalResult{
			Text:     entries[i].Text,
			Metadata: entries[i].MetadataMap(),
			Score:    embedding.CosineSimilarity(vector, entries[i].EmbeddingVector()),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}
