package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragdoc/internal/config"
	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
)

func testRetrievalConfig() config.RetrievalConfig {
	overlap := 10
	return config.RetrievalConfig{
		ChunkSize:    50,
		ChunkOverlap: &overlap,
		TopK:         3,
		EmbedWorkers: 2,
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	svc := NewIngestService(&fakeAI{}, &fakeChunkStore{}, &fakeDocumentStore{}, nil, testRetrievalConfig())
	_, err := svc.Ingest(context.Background(), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, appErr.ErrEmptyInput))
}

func TestIngest_SingleDocument(t *testing.T) {
	var mu sync.Mutex
	taskTypes := make(map[string]int)
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			mu.Lock()
			taskTypes[taskType]++
			mu.Unlock()
			return []float32{float32(len(text)), 1}, nil
		},
	}
	chunks := &fakeChunkStore{}
	docs := &fakeDocumentStore{}
	svc := NewIngestService(ai, chunks, docs, nil, testRetrievalConfig())

	text := strings.Repeat("gophers build concurrent services with channels. ", 5)
	result, err := svc.Ingest(context.Background(), []IngestFile{{Name: "notes.txt", Data: []byte(text)}})
	require.NoError(t, err)
	require.Equal(t, 1, result.DocumentsProcessed)
	require.Greater(t, result.ChunksStored, 1)
	require.Equal(t, int64(result.ChunksStored), result.TotalStoredChunks)
	require.Len(t, result.Files, 1)
	require.Empty(t, result.Files[0].Error)

	require.Len(t, chunks.chunks, result.ChunksStored)
	for _, chunk := range chunks.chunks {
		require.Equal(t, "notes.txt", chunk.SourceID)
		require.NotEmpty(t, chunk.Content)
		require.NotEmpty(t, chunk.Embedding)
	}
	require.Len(t, docs.docs, 1)
	require.Equal(t, result.ChunksStored, docs.docs[0].ChunkCount)
	require.Len(t, taskTypes, 1)
	require.Equal(t, result.ChunksStored, taskTypes[TaskTypeDocument])
}

func TestIngest_FailedChunkEmbeddingIsDropped(t *testing.T) {
	var calls int64
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			atomic.AddInt64(&calls, 1)
			if strings.Contains(text, "poison") {
				return nil, errors.New("embedding backend down")
			}
			return []float32{1, 2}, nil
		},
	}
	chunks := &fakeChunkStore{}
	overlap := 0
	cfg := config.RetrievalConfig{ChunkSize: 6, ChunkOverlap: &overlap, EmbedWorkers: 2}
	svc := NewIngestService(ai, chunks, &fakeDocumentStore{}, nil, cfg)

	result, err := svc.Ingest(context.Background(), []IngestFile{{Name: "a.txt", Data: []byte("aaaaaapoisonbbbbbb")}})
	require.NoError(t, err)
	require.Equal(t, 1, result.DocumentsProcessed)
	require.Equal(t, 2, result.ChunksStored)
	require.Equal(t, int64(3), atomic.LoadInt64(&calls))
	for _, chunk := range chunks.chunks {
		require.NotContains(t, chunk.Content, "poison")
	}
}

func TestIngest_BadFileDoesNotAbortBatch(t *testing.T) {
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			return []float32{1}, nil
		},
	}
	svc := NewIngestService(ai, &fakeChunkStore{}, &fakeDocumentStore{}, nil, testRetrievalConfig())

	result, err := svc.Ingest(context.Background(), []IngestFile{
		{Name: "broken.zip", Data: []byte("PK")},
		{Name: "good.txt", Data: []byte("plain text content")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.DocumentsProcessed)
	require.Len(t, result.Files, 2)
	require.NotEmpty(t, result.Files[0].Error)
	require.Empty(t, result.Files[1].Error)
	require.Equal(t, 1, result.Files[1].ChunksStored)
}

func TestIngest_AppendFailureReportedPerFile(t *testing.T) {
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			return []float32{1}, nil
		},
	}
	chunks := &fakeChunkStore{appendErr: errors.New("db gone")}
	svc := NewIngestService(ai, chunks, &fakeDocumentStore{}, nil, testRetrievalConfig())

	result, err := svc.Ingest(context.Background(), []IngestFile{{Name: "a.txt", Data: []byte("some text")}})
	require.NoError(t, err)
	require.Equal(t, 0, result.DocumentsProcessed)
	require.Len(t, result.Files, 1)
	require.Contains(t, result.Files[0].Error, "db gone")
}
