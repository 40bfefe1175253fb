package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragdoc/internal/config"
	"github.com/xxxsen/ragdoc/internal/extract"
	"github.com/xxxsen/ragdoc/internal/filestore"
	"github.com/xxxsen/ragdoc/internal/model"
	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
	"github.com/xxxsen/ragdoc/internal/rag"
)

type IngestService struct {
	ai        AIClient
	chunks    ChunkStore
	documents DocumentStore
	files     filestore.Store
	cfg       config.RetrievalConfig
}

func NewIngestService(ai AIClient, chunks ChunkStore, documents DocumentStore, files filestore.Store, cfg config.RetrievalConfig) *IngestService {
	return &IngestService{
		ai:        ai,
		chunks:    chunks,
		documents: documents,
		files:     files,
		cfg:       cfg,
	}
}

type IngestFile struct {
	Name string
	Data []byte
}

type FileResult struct {
	Filename     string `json:"filename"`
	ChunksStored int    `json:"chunks_stored"`
	Error        string `json:"error,omitempty"`
}

type IngestResult struct {
	DocumentsProcessed int          `json:"documents_processed"`
	ChunksStored       int          `json:"chunks_stored"`
	TotalStoredChunks  int64        `json:"total_stored_chunks"`
	Files              []FileResult `json:"files"`
}

// Ingest runs the full pipeline for a batch of uploaded documents. A failure
// in one file never aborts the others; a failed chunk embedding only drops
// that chunk. Each file's outcome is reported individually.
func (s *IngestService) Ingest(ctx context.Context, files []IngestFile) (*IngestResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no documents supplied", appErr.ErrEmptyInput)
	}
	result := &IngestResult{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		logger := logutil.GetLogger(ctx).With(zap.String("filename", file.Name))
		stored, err := s.ingestOne(ctx, file)
		if err != nil {
			logger.Error("document ingestion failed", zap.Error(err))
			result.Files = append(result.Files, FileResult{Filename: file.Name, Error: err.Error()})
			continue
		}
		logger.Info("document ingested", zap.Int("chunks_stored", stored))
		result.DocumentsProcessed++
		result.ChunksStored += stored
		result.Files = append(result.Files, FileResult{Filename: file.Name, ChunksStored: stored})
	}
	total, err := s.chunks.Count(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Warn("failed to count stored chunks", zap.Error(err))
	}
	result.TotalStoredChunks = total
	return result, nil
}

func (s *IngestService) ingestOne(ctx context.Context, file IngestFile) (int, error) {
	text, err := extract.Text(file.Name, file.Data)
	if err != nil {
		return 0, err
	}
	pieces, err := rag.Split(text, s.cfg.ChunkSize, *s.cfg.ChunkOverlap)
	if err != nil {
		return 0, err
	}
	chunks := s.embedChunks(ctx, file.Name, pieces)
	if err := s.chunks.Append(ctx, chunks); err != nil {
		return 0, err
	}
	storageKey := s.saveOriginal(ctx, file)
	if err := s.documents.Save(ctx, &model.Document{
		Filename:   file.Name,
		StorageKey: storageKey,
		Size:       int64(len(file.Data)),
		ChunkCount: len(chunks),
		Ctime:      time.Now().Unix(),
	}); err != nil {
		logutil.GetLogger(ctx).Warn("failed to record document", zap.String("filename", file.Name), zap.Error(err))
	}
	return len(chunks), nil
}

// embedChunks requests one embedding per piece on a worker pool. Failed or
// empty embeddings drop the piece; survivors keep document order.
func (s *IngestService) embedChunks(ctx context.Context, sourceID string, pieces []string) []*model.Chunk {
	logger := logutil.GetLogger(ctx).With(zap.String("source_id", sourceID))
	embedded := make([]*model.Chunk, len(pieces))
	pool, err := ants.NewPool(s.cfg.EmbedWorkers)
	if err != nil {
		logger.Warn("failed to create embed pool, falling back to serial", zap.Error(err))
		pool = nil
	} else {
		defer pool.Release()
	}
	var wg sync.WaitGroup
	for i, piece := range pieces {
		i, piece := i, piece
		task := func() {
			defer wg.Done()
			emb, err := s.ai.Embed(ctx, piece, TaskTypeDocument)
			if err != nil {
				logger.Warn("chunk embedding failed, dropping chunk", zap.Int("index", i), zap.Error(err))
				return
			}
			if len(emb) == 0 {
				logger.Warn("empty embedding returned, dropping chunk", zap.Int("index", i))
				return
			}
			embedded[i] = &model.Chunk{
				SourceID:  sourceID,
				Content:   piece,
				Embedding: emb,
				Ctime:     time.Now().Unix(),
			}
		}
		wg.Add(1)
		if pool == nil {
			task()
			continue
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			logger.Warn("failed to submit embed task, dropping chunk", zap.Int("index", i), zap.Error(err))
		}
	}
	wg.Wait()
	chunks := make([]*model.Chunk, 0, len(embedded))
	for _, chunk := range embedded {
		if chunk != nil {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) < len(pieces) {
		logger.Warn("some chunks dropped during embedding",
			zap.Int("total", len(pieces)),
			zap.Int("stored", len(chunks)),
		)
	}
	return chunks
}

// saveOriginal keeps the raw upload for later re-processing; failure here is
// not fatal to ingestion since the chunks are already embedded.
func (s *IngestService) saveOriginal(ctx context.Context, file IngestFile) string {
	if s.files == nil {
		return ""
	}
	key := newFileKey(file.Name)
	reader := filestore.BytesReader(file.Data)
	defer reader.Close()
	if err := s.files.Save(ctx, key, reader, int64(len(file.Data))); err != nil {
		logutil.GetLogger(ctx).Warn("failed to store original document", zap.String("filename", file.Name), zap.Error(err))
		return ""
	}
	return key
}

func newFileKey(filename string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes) + filepath.Ext(filename)
}
