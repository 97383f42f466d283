package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FilterConfig holds settings for the corpus filter stage.
type FilterConfig struct {
	// Categories lists the target category tags. A record is kept when its
	// category set intersects this list.
	Categories []string `json:"categories" yaml:"categories"`

	// Cutoff is the earliest effective date a kept record may have.
	Cutoff time.Time `json:"cutoff" yaml:"cutoff"`
}

// EmbeddingProvider identifies the embedding backend.
type EmbeddingProvider string

const (
	ProviderOpenAI EmbeddingProvider = "openai"
	ProviderOllama EmbeddingProvider = "ollama"
)

// EmbeddingConfig holds settings for stages that call an embedding API.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the embedding backend: openai or ollama.
	Provider EmbeddingProvider `json:"provider" yaml:"provider"`

	// Model is the embedding model identifier
	// (e.g. "text-embedding-3-small", "all-minilm:l6-v2").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the authentication key for the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimensions is the expected output vector dimension. When non-zero,
	// vectors of any other length are rejected.
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// IndexConfig holds settings for the index build stage.
type IndexConfig struct {
	// IndexDir is the directory holding the persisted index, metadata
	// database, and manifest.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// BatchSize is the number of texts embedded per API call (default 128).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// RequestsPerSecond throttles embedding API calls. Zero means no limit.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ServerConfig holds settings for the query HTTP service.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// IndexDir is the directory the artifacts are loaded from.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// DefaultK is the number of results returned when a request omits k (default 5).
	DefaultK int `json:"default_k" yaml:"default_k"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Filter    FilterConfig    `json:"filter" yaml:"filter"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
