package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragdoc/internal/config"
	"github.com/xxxsen/ragdoc/internal/model"
	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
	"github.com/xxxsen/ragdoc/internal/rag"
)

type QueryService struct {
	ai        AIClient
	chunks    ChunkStore
	documents DocumentStore
	cfg       config.RetrievalConfig
}

func NewQueryService(ai AIClient, chunks ChunkStore, documents DocumentStore, cfg config.RetrievalConfig) *QueryService {
	return &QueryService{
		ai:        ai,
		chunks:    chunks,
		documents: documents,
		cfg:       cfg,
	}
}

type RankedChunk struct {
	Text     string  `json:"text"`
	SourceID string  `json:"source_id"`
	Score    float32 `json:"score"`
}

type QueryResult struct {
	Answer string        `json:"answer"`
	Chunks []RankedChunk `json:"ranked_chunks"`
}

type CorpusStats struct {
	Documents int64 `json:"documents"`
	Chunks    int64 `json:"chunks"`
}

// Answer runs the query pipeline: embed the question, rank the corpus,
// assemble the prompt, generate. Embed and generate failures are fatal to
// this query and carry their cause to the caller.
func (s *QueryService) Answer(ctx context.Context, question string) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: no question supplied", appErr.ErrEmptyInput)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("question", question))
	ranked, err := s.retrieve(ctx, question, s.cfg.TopK)
	if err != nil {
		return nil, err
	}
	prompt := rag.BuildPrompt(question, ranked)
	answer, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		logger.Error("failed to generate answer", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", appErr.ErrGeneration, err)
	}
	logger.Info("query answered", zap.Int("context_chunks", len(ranked)))
	return &QueryResult{
		Answer: answer,
		Chunks: toRankedChunks(ranked),
	}, nil
}

// Search is the retrieval-only half of the pipeline, exposed for
// transparency: same ranking, no generation call.
func (s *QueryService) Search(ctx context.Context, question string, topK int) ([]RankedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: no question supplied", appErr.ErrEmptyInput)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	ranked, err := s.retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	return toRankedChunks(ranked), nil
}

func (s *QueryService) Stats(ctx context.Context) (*CorpusStats, error) {
	chunkCount, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, err
	}
	docCount, err := s.documents.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CorpusStats{Documents: docCount, Chunks: chunkCount}, nil
}

func (s *QueryService) retrieve(ctx context.Context, question string, topK int) ([]model.ScoredChunk, error) {
	logger := logutil.GetLogger(ctx)
	queryEmb, err := s.ai.Embed(ctx, question, TaskTypeQuery)
	if err != nil {
		logger.Error("failed to embed question", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", appErr.ErrEmbedding, err)
	}
	corpus, err := s.chunks.FetchAll(ctx)
	if err != nil {
		logger.Error("failed to load corpus", zap.Error(err))
		return nil, err
	}
	opts := rag.RetrieveOptions{TopK: topK}
	if s.cfg.MinScore != nil {
		minScore := float32(*s.cfg.MinScore)
		opts.MinScore = &minScore
	}
	ranked := rag.Retrieve(queryEmb, corpus, opts)
	logger.Debug("retrieval done",
		zap.Int("corpus_size", len(corpus)),
		zap.Int("ranked", len(ranked)),
	)
	return ranked, nil
}

func toRankedChunks(ranked []model.ScoredChunk) []RankedChunk {
	out := make([]RankedChunk, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, RankedChunk{
			Text:     item.Chunk.Content,
			SourceID: item.Chunk.SourceID,
			Score:    item.Score,
		})
	}
	return out
}
