package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_OverlappingWindows(t *testing.T) {
	chunks, err := Split("ABCDEFGHIJ", 4, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"ABCD", "DEFG", "GHIJ"}, chunks)
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 10)
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestSplit_TextShorterThanChunkSize(t *testing.T) {
	chunks, err := Split("  hello world  ", 100, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"hello world"}, chunks)
}

func TestSplit_WhitespaceOnlyPiecesDropped(t *testing.T) {
	chunks, err := Split("abcd    efgh", 4, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"abcd", "efgh"}, chunks)
}

func TestSplit_InvalidConfiguration(t *testing.T) {
	_, err := Split("abc", 4, 4)
	require.Error(t, err)
	_, err = Split("abc", 4, 5)
	require.Error(t, err)
	_, err = Split("abc", 0, 0)
	require.Error(t, err)
	_, err = Split("abc", 4, -1)
	require.Error(t, err)
}

func TestSplit_ChunkLengthAndOverlapProperties(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 40)
	cases := []struct {
		size    int
		overlap int
	}{
		{50, 0},
		{50, 10},
		{128, 32},
		{7, 3},
	}
	for _, tc := range cases {
		chunks, err := Split(text, tc.size, tc.overlap)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for _, chunk := range chunks {
			require.LessOrEqual(t, len(chunk), tc.size)
			require.NotEmpty(t, strings.TrimSpace(chunk))
		}
		// Same inputs, same output.
		again, err := Split(text, tc.size, tc.overlap)
		require.NoError(t, err)
		require.Equal(t, chunks, again)
	}
}
