package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/ragdoc/internal/model"
	"github.com/xxxsen/ragdoc/internal/pkg/dbutil"
)

// ChunkRepo is the corpus store: append-only chunk rows with their
// embeddings. Appends and full reads may run concurrently; postgres gives
// each reader a consistent snapshot, so a query either sees a concurrently
// ingested document or it does not.
type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

func (r *ChunkRepo) Append(ctx context.Context, chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(chunks))
	for _, chunk := range chunks {
		rows = append(rows, map[string]interface{}{
			"source_id": chunk.SourceID,
			"content":   chunk.Content,
			"embedding": pgvector.NewVector(chunk.Embedding),
			"ctime":     chunk.Ctime,
		})
	}
	sqlStr, args, err := builder.BuildInsert("chunks", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ChunkRepo) FetchAll(ctx context.Context) ([]*model.Chunk, error) {
	const query = `
		SELECT id, source_id, content, embedding, ctime
		FROM chunks
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chunks []*model.Chunk
	for rows.Next() {
		var item model.Chunk
		var embedding pgvector.Vector
		if err := rows.Scan(&item.ID, &item.SourceID, &item.Content, &embedding, &item.Ctime); err != nil {
			return nil, err
		}
		item.Embedding = embedding.Slice()
		chunks = append(chunks, &item)
	}
	return chunks, rows.Err()
}

func (r *ChunkRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM chunks`
	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
