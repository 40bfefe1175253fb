package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragdoc/internal/model"
)

func TestBuildPrompt_EmptyResultUsesSentinel(t *testing.T) {
	prompt := BuildPrompt("what is go?", nil)
	require.Contains(t, prompt, NoContextSentinel)
	require.Contains(t, prompt, "what is go?")
}

func TestBuildPrompt_ChunksInRankOrder(t *testing.T) {
	results := []model.ScoredChunk{
		{Chunk: &model.Chunk{Content: "most relevant"}, Score: 0.95},
		{Chunk: &model.Chunk{Content: "less relevant"}, Score: 0.60},
	}
	prompt := BuildPrompt("question?", results)
	require.NotContains(t, prompt, NoContextSentinel)
	require.Contains(t, prompt, "most relevant\n\nless relevant")
	first := strings.Index(prompt, "most relevant")
	second := strings.Index(prompt, "less relevant")
	require.Less(t, first, second)
}
