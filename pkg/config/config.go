// Package config loads WeMemory's configuration from a YAML file and
// WEMEMORY_-prefixed environment variables, following the teacher's
// viper-backed Load/SetDefaults pair.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SessionConfig controls the session builder (spec §4.B).
type SessionConfig struct {
	TimeGapMinutes    int           `mapstructure:"time_gap_minutes"`
	MinMessages       int           `mapstructure:"min_messages"`
	MaxMessages       int           `mapstructure:"max_messages"`
	OverlapWindow     int           `mapstructure:"overlap_window"`
	OverlapMaxGapStr  string        `mapstructure:"overlap_max_gap"`
	OverlapMaxGap     time.Duration `mapstructure:"-"`
}

// VectorConfig controls the dual-vector blend and embedding dimension.
type VectorConfig struct {
	Dimension      int     `mapstructure:"dimension"`
	ContentWeight  float64 `mapstructure:"content_weight"`
	ContextWeight  float64 `mapstructure:"context_weight"`
}

// IndexConfig controls the hybrid index fusion and ANN switchover.
type IndexConfig struct {
	BM25Weight              float64 `mapstructure:"bm25_weight"`
	VectorWeight            float64 `mapstructure:"vector_weight"`
	AnnThreshold            int     `mapstructure:"ann_threshold"`
	HNSWM                   int     `mapstructure:"hnsw_m"`
	ExplainBM25Threshold    float64 `mapstructure:"explain_bm25_threshold"`
	ExplainCosineThreshold  float64 `mapstructure:"explain_cosine_threshold"`
}

// RecallConfig holds the recall cache TTL and default min_relevance /
// top_k values. Only CacheTTL is handed to recall.Service by cmd/serve;
// MinRelevance and DefaultTopK are not read by any caller.
type RecallConfig struct {
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds"`
	CacheTTL        time.Duration `mapstructure:"-"`
	MinRelevance    float64 `mapstructure:"min_relevance"`
	DefaultTopK     int     `mapstructure:"default_top_k"`
}

// LoggingConfig mirrors the teacher's leveled-logger configuration.
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// StoreConfig locates the vector-store snapshot and the directory of
// per-conversation shards written by `wememory build`.
type StoreConfig struct {
	SnapshotPath string `mapstructure:"snapshot_path"`
	ShardDir     string `mapstructure:"shard_dir"`
}

// ServerConfig controls the pkg/api HTTP façade.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the top-level, explicitly-threaded application configuration.
// Spec §6's nine named knobs are all represented here as fields, never as
// compiled-in constants.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Session SessionConfig `mapstructure:"session"`
	Vector  VectorConfig  `mapstructure:"vector"`
	Index   IndexConfig   `mapstructure:"index"`
	Recall  RecallConfig  `mapstructure:"recall"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`

	EmbeddingProvider string `mapstructure:"embedding_provider"`
	EmbeddingModel    string `mapstructure:"embedding_model"`
	EmbeddingBaseURL  string `mapstructure:"embedding_base_url"`
}

var cfg *Config

// Get returns the process-wide configuration loaded by Load. It panics if
// called before Load, matching the teacher's pkg/config.Get contract; the
// core packages (recall.Service, hybridindex.Index) never call Get
// themselves — only pkg/logger's Init uses it; cmd/ threads the *Config
// returned by Load explicitly.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load reads configuration from cfgFile (or ./.wememory/settings.yaml if
// empty), layering WEMEMORY_-prefixed environment variables on top, and
// returns the populated Config.
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./.wememory")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("WEMEMORY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(c); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	cfg = c
	return c, nil
}

func setDefaults() {
	viper.SetDefault("logging.log_file", "./.wememory/system.log")
	viper.SetDefault("logging.preserve", true)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("session.time_gap_minutes", 30)
	viper.SetDefault("session.min_messages", 3)
	viper.SetDefault("session.max_messages", 20)
	viper.SetDefault("session.overlap_window", 5)
	viper.SetDefault("session.overlap_max_gap", "2h")

	viper.SetDefault("vector.dimension", 768)
	viper.SetDefault("vector.content_weight", 0.85)
	viper.SetDefault("vector.context_weight", 0.15)

	viper.SetDefault("index.bm25_weight", 0.5)
	viper.SetDefault("index.vector_weight", 0.5)
	viper.SetDefault("index.ann_threshold", 5000)
	viper.SetDefault("index.hnsw_m", 32)
	viper.SetDefault("index.explain_bm25_threshold", 0.5)
	viper.SetDefault("index.explain_cosine_threshold", 0.7)

	viper.SetDefault("recall.cache_ttl_seconds", 3600)
	viper.SetDefault("recall.min_relevance", 0.3)
	viper.SetDefault("recall.default_top_k", 5)

	viper.SetDefault("store.snapshot_path", "./.wememory/store/wememory.store")
	viper.SetDefault("store.shard_dir", "./.wememory/store/shards")

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("embedding_provider", "ollama")
	viper.SetDefault("embedding_model", "nomic-embed-text")
	viper.SetDefault("embedding_base_url", "http://localhost:11434")
}

// processDurations converts the string-form durations viper can't
// unmarshal directly, mirroring the teacher's pkg/config processDurations.
func processDurations(c *Config) error {
	gapStr := c.Session.OverlapMaxGapStr
	if gapStr == "" {
		gapStr = "2h"
	}
	gap, err := time.ParseDuration(gapStr)
	if err != nil {
		return fmt.Errorf("invalid session.overlap_max_gap: %w", err)
	}
	c.Session.OverlapMaxGap = gap

	ttl := c.Recall.CacheTTLSeconds
	if ttl == 0 {
		ttl = 3600
	}
	c.Recall.CacheTTL = time.Duration(ttl) * time.Second

	return nil
}

// EnsureSettingsDir makes sure the directory holding a settings/snapshot
// path exists, used by `wememory build` before writing the snapshot.
func EnsureSettingsDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
