package rag

import (
	"fmt"
	"strings"

	"github.com/xxxsen/ragdoc/internal/model"
)

// NoContextSentinel is rendered as the context body when retrieval found
// nothing usable, so the model always receives a well-formed prompt.
const NoContextSentinel = "No relevant information was found in the knowledge base."

// BuildPrompt renders the retrieved chunks and the user question into the
// final prompt. Chunks appear in rank order, highest score first, separated
// by blank lines; models tend to weight earlier context more heavily.
func BuildPrompt(question string, results []model.ScoredChunk) string {
	context := NoContextSentinel
	if len(results) > 0 {
		parts := make([]string, 0, len(results))
		for _, item := range results {
			parts = append(parts, item.Chunk.Content)
		}
		context = strings.Join(parts, "\n\n")
	}
	return fmt.Sprintf(`You are a helpful assistant.
Answer the question using ONLY the context below.
- If the context does not contain the answer, say you do not know.
- Do not invent facts that are not in the context.
- Use the same language as the question.

CONTEXT:
%s

QUESTION:
%s`, context, question)
}
