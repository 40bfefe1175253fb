package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	FileStore     FileStoreConfig  `json:"file_store"`
	AI            AIConfig         `json:"ai"`
	Retrieval     RetrievalConfig  `json:"retrieval"`
	EmbedCache    EmbedCacheConfig `json:"embed_cache"`
	MaxUploadSize int64            `json:"max_upload_size"`
	CORSAllowlist []string         `json:"cors_allowlist"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Generators    []ProviderRef    `json:"generators"`
	Embedders     []ProviderRef    `json:"embedders"`
	Timeout       int              `json:"timeout"`
	MaxInputChars int              `json:"max_input_chars"`
	Generation    GenerationConfig `json:"generation"`
}

type ProviderRef struct {
	Name     string      `json:"name"`
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// RetrievalConfig carries the chunking and ranking knobs. Preset selects one
// of the recognized parameter sets; explicitly set fields win over the preset.
type RetrievalConfig struct {
	Preset       string   `json:"preset"`
	ChunkSize    int      `json:"chunk_size"`
	ChunkOverlap *int     `json:"chunk_overlap"`
	TopK         int      `json:"top_k"`
	MinScore     *float64 `json:"min_score"`
	EmbedWorkers int      `json:"embed_workers"`
}

type EmbedCacheConfig struct {
	LRUSize       int `json:"lru_size"`
	LRUTTLMinutes int `json:"lru_ttl_minutes"`
	DBKeepDays    int `json:"db_keep_days"`
}

const (
	// PresetCompact is the original parameter set: small context, no filter.
	PresetCompact = "compact"
	// PresetStrict is the later parameter set: wider context with a
	// similarity floor.
	PresetStrict = "strict"
)

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if len(cfg.AI.Embedders) == 0 {
		return nil, fmt.Errorf("ai.embedders is required")
	}
	if len(cfg.AI.Generators) == 0 {
		return nil, fmt.Errorf("ai.generators is required")
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.Generation.MaxTokens == 0 {
		cfg.AI.Generation.MaxTokens = 1024
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./data/uploads"}
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = 20 * 1024 * 1024
	}
	if cfg.EmbedCache.LRUSize == 0 {
		cfg.EmbedCache.LRUSize = 4096
	}
	if cfg.EmbedCache.LRUTTLMinutes == 0 {
		cfg.EmbedCache.LRUTTLMinutes = 120
	}
	if cfg.EmbedCache.DBKeepDays == 0 {
		cfg.EmbedCache.DBKeepDays = 30
	}
	if err := applyRetrievalDefaults(&cfg.Retrieval); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyRetrievalDefaults(rc *RetrievalConfig) error {
	switch rc.Preset {
	case "", PresetStrict:
		if rc.TopK == 0 {
			rc.TopK = 5
		}
		if rc.MinScore == nil {
			minScore := 0.7
			rc.MinScore = &minScore
		}
	case PresetCompact:
		if rc.TopK == 0 {
			rc.TopK = 3
		}
	default:
		return fmt.Errorf("unknown retrieval preset: %s", rc.Preset)
	}
	if rc.ChunkSize == 0 {
		rc.ChunkSize = 500
	}
	if rc.ChunkOverlap == nil {
		overlap := 50
		rc.ChunkOverlap = &overlap
	}
	if rc.ChunkSize <= *rc.ChunkOverlap || *rc.ChunkOverlap < 0 {
		return fmt.Errorf("retrieval.chunk_size must be greater than retrieval.chunk_overlap")
	}
	if rc.EmbedWorkers <= 0 {
		rc.EmbedWorkers = 4
	}
	return nil
}
