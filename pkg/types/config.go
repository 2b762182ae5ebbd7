package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "literature-helper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is where <source>_results.json and
	// <source>_filtered_results.json are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Queries are the free-text searches sent to API sources
	// (default "TTS" and "Text to speech").
	Queries []string `json:"queries" yaml:"queries"`

	// PageSize is the number of records requested per API page.
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRecords caps the records fetched per query (0 = no cap).
	MaxRecords int `json:"max_records" yaml:"max_records"`

	// RequestDelay is the minimum spacing between consecutive requests to
	// the same source (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// Keywords overrides the shared keyword list when non-empty.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// MergeConfig holds settings for the merge stage.
type MergeConfig struct {
	// InputDir is searched recursively for *filtered*.json batch files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputPath is the merged canonical set (default filter/filtered_papers.json).
	OutputPath string `json:"output_path" yaml:"output_path"`

	// CutoffYear drops records submitted before this year (default 2017).
	CutoffYear int `json:"cutoff_year" yaml:"cutoff_year"`
}

// ReviewConfig holds settings shared by the diff service and the progress store.
type ReviewConfig struct {
	// PapersPath is the merged canonical set read on every diff.
	PapersPath string `json:"papers_path" yaml:"papers_path"`

	// ProgressPath is the JSON progress file.
	ProgressPath string `json:"progress_path" yaml:"progress_path"`

	// NormalizeTitles trims, collapses whitespace in, and casefolds titles
	// before deriving ids. Off by default so existing progress files keep
	// matching.
	NormalizeTitles bool `json:"normalize_titles" yaml:"normalize_titles"`
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	ReviewConfig `yaml:",inline"`

	// Addr is the listen address (default 0.0.0.0:8080).
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins are the CORS origins allowed to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown (default 5s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is the minimum console level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// File, when set, receives JSON logs rotated by size.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// JSON selects the JSON console encoder instead of the development one.
	JSON bool `json:"json" yaml:"json"`
}

// IndexConfig holds settings for the SQLite catalog index.
type IndexConfig struct {
	// Path is the database file (default index/papers.db).
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of search hits (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl  CrawlConfig  `json:"crawl" yaml:"crawl"`
	Merge  MergeConfig  `json:"merge" yaml:"merge"`
	Server ServerConfig `json:"server" yaml:"server"`
	Index  IndexConfig  `json:"index" yaml:"index"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
