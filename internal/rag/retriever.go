package rag

import (
	"sort"

	"github.com/xxxsen/ragdoc/internal/model"
)

// RetrieveOptions are the ranking knobs. MinScore, when set, is a strict
// lower bound: candidates scoring exactly at the threshold are excluded.
type RetrieveOptions struct {
	TopK     int
	MinScore *float32
}

// Retrieve scores every chunk in the corpus against the query vector and
// returns at most TopK candidates ordered by score descending. The sort is
// stable so equal scores keep corpus order and results stay deterministic.
// An empty result is a valid outcome, not an error.
func Retrieve(query []float32, corpus []*model.Chunk, opts RetrieveOptions) []model.ScoredChunk {
	candidates := make([]model.ScoredChunk, 0, len(corpus))
	for _, chunk := range corpus {
		score := CosineSimilarity(query, chunk.Embedding)
		if opts.MinScore != nil && score <= *opts.MinScore {
			continue
		}
		candidates = append(candidates, model.ScoredChunk{Chunk: chunk, Score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if opts.TopK > 0 && len(candidates) > opts.TopK {
		candidates = candidates[:opts.TopK]
	}
	return candidates
}
