package service

import (
	"context"

	"github.com/xxxsen/ragdoc/internal/model"
)

// Embedding task types, matching the gemini task taxonomy. Providers that
// have no such concept ignore them.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// AIClient is the slice of ai.Manager the pipelines need.
type AIClient interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChunkStore is the corpus collaborator: concurrent append and full read,
// no other guarantees.
type ChunkStore interface {
	Append(ctx context.Context, chunks []*model.Chunk) error
	FetchAll(ctx context.Context) ([]*model.Chunk, error)
	Count(ctx context.Context) (int64, error)
}

type DocumentStore interface {
	Save(ctx context.Context, doc *model.Document) error
	Count(ctx context.Context) (int64, error)
}
