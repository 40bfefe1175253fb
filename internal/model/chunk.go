package model

// Chunk is a bounded slice of a source document together with its embedding.
// Chunks are append-only: once stored they are never mutated.
type Chunk struct {
	ID        int64     `json:"id"`
	SourceID  string    `json:"source_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	Ctime     int64     `json:"ctime"`
}

// ScoredChunk pairs a chunk with its similarity score for one query.
// It is never persisted.
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}
