package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_StrictPresetIsDefault(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}],
			"embedders": [{"name": "e", "provider": "gemini", "model": "m", "data": {}}]
		}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Retrieval.TopK)
	require.NotNil(t, cfg.Retrieval.MinScore)
	require.InDelta(t, 0.7, *cfg.Retrieval.MinScore, 1e-9)
	require.Equal(t, 500, cfg.Retrieval.ChunkSize)
	require.Equal(t, 50, *cfg.Retrieval.ChunkOverlap)
}

func TestLoad_CompactPreset(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}],
			"embedders": [{"name": "e", "provider": "gemini", "model": "m", "data": {}}]
		},
		"retrieval": {"preset": "compact"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Retrieval.TopK)
	require.Nil(t, cfg.Retrieval.MinScore)
}

func TestLoad_ExplicitValuesWinOverPreset(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}],
			"embedders": [{"name": "e", "provider": "gemini", "model": "m", "data": {}}]
		},
		"retrieval": {"preset": "strict", "top_k": 8, "min_score": 0.5, "chunk_size": 200, "chunk_overlap": 20}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Retrieval.TopK)
	require.InDelta(t, 0.5, *cfg.Retrieval.MinScore, 1e-9)
	require.Equal(t, 200, cfg.Retrieval.ChunkSize)
	require.Equal(t, 20, *cfg.Retrieval.ChunkOverlap)
}

func TestLoad_UnknownPresetRejected(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}],
			"embedders": [{"name": "e", "provider": "gemini", "model": "m", "data": {}}]
		},
		"retrieval": {"preset": "aggressive"}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidChunkingRejected(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}],
			"embedders": [{"name": "e", "provider": "gemini", "model": "m", "data": {}}]
		},
		"retrieval": {"chunk_size": 50, "chunk_overlap": 50}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingEmbeddersRejected(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"dsn": "x"},
		"ai": {
			"generators": [{"name": "g", "provider": "gemini", "model": "m", "data": {}}]
		}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}
