package service

import (
	"context"
	"errors"

	"github.com/xxxsen/ragdoc/internal/model"
)

type fakeAI struct {
	embedFn    func(text string, taskType string) ([]float32, error)
	generateFn func(prompt string) (string, error)
}

func (f *fakeAI) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.embedFn == nil {
		return nil, errors.New("embed not configured")
	}
	return f.embedFn(text, taskType)
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	if f.generateFn == nil {
		return "", errors.New("generate not configured")
	}
	return f.generateFn(prompt)
}

type fakeChunkStore struct {
	chunks    []*model.Chunk
	appendErr error
	fetchErr  error
}

func (f *fakeChunkStore) Append(ctx context.Context, chunks []*model.Chunk) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, chunk := range chunks {
		stored := *chunk
		stored.ID = int64(len(f.chunks) + 1)
		f.chunks = append(f.chunks, &stored)
	}
	return nil
}

func (f *fakeChunkStore) FetchAll(ctx context.Context) ([]*model.Chunk, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.chunks, nil
}

func (f *fakeChunkStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.chunks)), nil
}

type fakeDocumentStore struct {
	docs []*model.Document
}

func (f *fakeDocumentStore) Save(ctx context.Context, doc *model.Document) error {
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeDocumentStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.docs)), nil
}
