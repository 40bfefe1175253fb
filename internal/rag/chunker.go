package rag

import (
	"fmt"
	"strings"

	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
)

// Split cuts text into overlapping fixed-size pieces. Boundaries are purely
// positional (byte offsets), not token or sentence aware, so a chunk may end
// mid-word. Each piece is whitespace-trimmed and empty pieces are dropped.
// The start offset advances by chunkSize-overlap, so consecutive raw pieces
// share exactly overlap bytes except possibly the last one.
func Split(text string, chunkSize int, overlap int) ([]string, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk size %d must be greater than overlap %d", appErr.ErrInvalid, chunkSize, overlap)
	}
	var chunks []string
	step := chunkSize - overlap
	for start := 0; start < len(text); start += step {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		}
		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			chunks = append(chunks, piece)
		}
		// Once a piece reaches the end of the text the remainder is already
		// covered; stepping again would emit a fragment of pure overlap.
		if end == len(text) {
			break
		}
	}
	return chunks, nil
}
