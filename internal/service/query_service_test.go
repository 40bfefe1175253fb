package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragdoc/internal/config"
	"github.com/xxxsen/ragdoc/internal/model"
	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
	"github.com/xxxsen/ragdoc/internal/rag"
)

func queryCorpus() *fakeChunkStore {
	return &fakeChunkStore{chunks: []*model.Chunk{
		{ID: 1, SourceID: "a.txt", Content: "alpha", Embedding: []float32{1, 0}},
		{ID: 2, SourceID: "a.txt", Content: "beta", Embedding: []float32{0, 1}},
		{ID: 3, SourceID: "b.txt", Content: "gamma", Embedding: []float32{1, 1}},
	}}
}

func queryAI(answer string) *fakeAI {
	return &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
		generateFn: func(prompt string) (string, error) {
			return answer, nil
		},
	}
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	svc := NewQueryService(queryAI("x"), queryCorpus(), &fakeDocumentStore{}, testRetrievalConfig())
	_, err := svc.Answer(context.Background(), "   ")
	require.Error(t, err)
	require.True(t, errors.Is(err, appErr.ErrEmptyInput))
}

func TestAnswer_RanksAndTruncates(t *testing.T) {
	overlap := 10
	cfg := config.RetrievalConfig{ChunkSize: 50, ChunkOverlap: &overlap, TopK: 2}
	svc := NewQueryService(queryAI("the answer"), queryCorpus(), &fakeDocumentStore{}, cfg)

	result, err := svc.Answer(context.Background(), "what is alpha?")
	require.NoError(t, err)
	require.Equal(t, "the answer", result.Answer)
	require.Len(t, result.Chunks, 2)
	require.Equal(t, "alpha", result.Chunks[0].Text)
	require.Equal(t, "a.txt", result.Chunks[0].SourceID)
	require.InDelta(t, 1.0, result.Chunks[0].Score, 1e-6)
	require.Equal(t, "gamma", result.Chunks[1].Text)
	require.InDelta(t, 0.7071, result.Chunks[1].Score, 1e-3)
}

func TestAnswer_MinScoreFiltersCandidates(t *testing.T) {
	overlap := 10
	minScore := 0.8
	cfg := config.RetrievalConfig{ChunkSize: 50, ChunkOverlap: &overlap, TopK: 5, MinScore: &minScore}
	svc := NewQueryService(queryAI("ok"), queryCorpus(), &fakeDocumentStore{}, cfg)

	result, err := svc.Answer(context.Background(), "question")
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	require.Equal(t, "alpha", result.Chunks[0].Text)
}

func TestAnswer_EmptyCorpusUsesSentinelContext(t *testing.T) {
	var seenPrompt string
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			return []float32{1, 0}, nil
		},
		generateFn: func(prompt string) (string, error) {
			seenPrompt = prompt
			return "i do not know", nil
		},
	}
	svc := NewQueryService(ai, &fakeChunkStore{}, &fakeDocumentStore{}, testRetrievalConfig())

	result, err := svc.Answer(context.Background(), "anything?")
	require.NoError(t, err)
	require.Empty(t, result.Chunks)
	require.Contains(t, seenPrompt, rag.NoContextSentinel)
}

func TestAnswer_EmbedFailureIsFatal(t *testing.T) {
	ai := &fakeAI{
		embedFn: func(text string, taskType string) ([]float32, error) {
			return nil, errors.New("backend down")
		},
	}
	svc := NewQueryService(ai, queryCorpus(), &fakeDocumentStore{}, testRetrievalConfig())
	_, err := svc.Answer(context.Background(), "question")
	require.Error(t, err)
	require.True(t, errors.Is(err, appErr.ErrEmbedding))
	require.Contains(t, err.Error(), "backend down")
}

func TestAnswer_GenerateFailureIsFatal(t *testing.T) {
	ai := queryAI("")
	ai.generateFn = func(prompt string) (string, error) {
		return "", errors.New("model overloaded")
	}
	svc := NewQueryService(ai, queryCorpus(), &fakeDocumentStore{}, testRetrievalConfig())
	_, err := svc.Answer(context.Background(), "question")
	require.Error(t, err)
	require.True(t, errors.Is(err, appErr.ErrGeneration))
	require.Contains(t, err.Error(), "model overloaded")
}

func TestSearch_NoGenerationCall(t *testing.T) {
	ai := queryAI("never")
	ai.generateFn = func(prompt string) (string, error) {
		t.Fatal("search must not call generate")
		return "", nil
	}
	svc := NewQueryService(ai, queryCorpus(), &fakeDocumentStore{}, testRetrievalConfig())

	results, err := svc.Search(context.Background(), "alpha?", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "alpha", results[0].Text)
}

func TestStats(t *testing.T) {
	docs := &fakeDocumentStore{docs: []*model.Document{{ID: 1}, {ID: 2}}}
	svc := NewQueryService(queryAI("x"), queryCorpus(), docs, testRetrievalConfig())
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Documents)
	require.Equal(t, int64(3), stats.Chunks)
}
