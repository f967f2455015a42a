// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "civiclens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// IngestConfig holds settings for the ingestion orchestrator.
type IngestConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// InterSourceDelay is the pause between launching consecutive source
	// fetches (default 2s) to respect external rate limits.
	InterSourceDelay time.Duration `json:"inter_source_delay" yaml:"inter_source_delay" mapstructure:"inter_source_delay"`

	// SourceTimeout bounds a single adapter's total fetch+normalize time
	// (default 60s).
	SourceTimeout time.Duration `json:"source_timeout" yaml:"source_timeout" mapstructure:"source_timeout"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// AnalysisConfig holds settings for the cross-source analyzer.
type AnalysisConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// RequestTimeout bounds one analyzer call (default 45s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`

	// ExcerptLimit caps the per-article body excerpt sent to the
	// analyzer, in bytes (default 1200).
	ExcerptLimit int `json:"excerpt_limit" yaml:"excerpt_limit" mapstructure:"excerpt_limit"`
}

// ClusterConfig holds settings for similarity clustering.
type ClusterConfig struct {
	// SimilarityThreshold is the minimum Jaccard similarity for two
	// articles to be related (default 0.6).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// RecencyWindow is the maximum publication gap between related
	// articles (default 48h).
	RecencyWindow time.Duration `json:"recency_window" yaml:"recency_window" mapstructure:"recency_window"`

	// MaxKeywords is the keyword set size per article (default 10).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords" mapstructure:"max_keywords"`
}

// StoreConfig holds settings for the canonical SQLite store.
type StoreConfig struct {
	// Path is the SQLite database file path (default "civiclens.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the HTTP trigger surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all stage configurations plus the source registry.
type Config struct {
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest" mapstructure:"ingest"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Cluster  ClusterConfig  `json:"cluster" yaml:"cluster" mapstructure:"cluster"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Sources  []Source       `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// WithDefaults fills unset fields with their documented defaults.
func (c Config) WithDefaults() Config {
	if c.Ingest.Timeout <= 0 {
		c.Ingest.Timeout = 30 * time.Second
	}
	if c.Ingest.UserAgent == "" {
		c.Ingest.UserAgent = "civiclens/0.1"
	}
	if c.Ingest.InterSourceDelay <= 0 {
		c.Ingest.InterSourceDelay = 2 * time.Second
	}
	if c.Ingest.SourceTimeout <= 0 {
		c.Ingest.SourceTimeout = 60 * time.Second
	}
	if c.Analysis.RequestTimeout <= 0 {
		c.Analysis.RequestTimeout = 45 * time.Second
	}
	if c.Analysis.ExcerptLimit <= 0 {
		c.Analysis.ExcerptLimit = 1200
	}
	if c.Cluster.SimilarityThreshold <= 0 {
		c.Cluster.SimilarityThreshold = 0.6
	}
	if c.Cluster.RecencyWindow <= 0 {
		c.Cluster.RecencyWindow = 48 * time.Hour
	}
	if c.Cluster.MaxKeywords <= 0 {
		c.Cluster.MaxKeywords = 10
	}
	if c.Store.Path == "" {
		c.Store.Path = "civiclens.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return c
}
