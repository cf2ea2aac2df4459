package config

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v10"

	"tagrag/internal/mdparse"
)

// Config is the validated service configuration, populated from the
// environment. Values are read once at startup; a rejected configuration is
// surfaced before any parsing begins.
type Config struct {
	Port   string `env:"PORT" envDefault:"8090"`
	APIKey string `env:"API_KEY"`

	// Document discovery
	DataDir        string   `env:"DATA_DIR" envDefault:"./data"`
	OutputDir      string   `env:"OUTPUT_DIR" envDefault:"./output"`
	FileExtensions []string `env:"FILE_EXTENSIONS" envDefault:".md,.markdown"`
	IncludeGlobs   []string `env:"INCLUDE_GLOBS"`

	// Chunking
	MaxChars        int      `env:"MAX_CHARS" envDefault:"1000"`
	OverlapRows     int      `env:"OVERLAP_ROWS" envDefault:"2"`
	SeedPrefix      string   `env:"SEED_PREFIX" envDefault:"?"`
	ExcludePatterns []string `env:"EXCLUDE_PATTERNS"`

	// Worker pool
	WorkerCount  int           `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int           `env:"MAX_QUEUE_SIZE" envDefault:"100"`
	JobTTL       time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Embedding / vector store
	EmbeddingAPIBase  string `env:"EMBEDDING_API_BASE" envDefault:"https://api.openai.com/v1"`
	EmbeddingAPIKey   string `env:"EMBEDDING_API_KEY"`
	EmbeddingModel    string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	ChromaPersistPath string `env:"CHROMA_PERSIST_PATH" envDefault:"./chroma"`
	ChromaCollection  string `env:"CHROMA_COLLECTION" envDefault:"tag_rag_vectors"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate fails fast on a configuration the parser or pipeline could not
// honor. It never partially applies anything: callers discard the Config on
// error.
func (c Config) Validate() error {
	if c.MaxChars <= 0 {
		return fmt.Errorf("MAX_CHARS must be positive, got %d", c.MaxChars)
	}
	if c.OverlapRows < 0 {
		return fmt.Errorf("OVERLAP_ROWS must not be negative, got %d", c.OverlapRows)
	}
	if utf8.RuneCountInString(c.SeedPrefix) != 1 {
		return fmt.Errorf("SEED_PREFIX must be a single character, got %q", c.SeedPrefix)
	}
	for _, p := range c.ExcludePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("EXCLUDE_PATTERNS entry %q: %w", p, err)
		}
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("MAX_QUEUE_SIZE must be positive, got %d", c.MaxQueueSize)
	}
	if c.JobTTL <= 0 {
		return fmt.Errorf("JOB_TTL must be positive, got %s", c.JobTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	return nil
}

// ParserOptions compiles the chunking section into mdparse options.
func (c Config) ParserOptions() (mdparse.Options, error) {
	patterns := make([]*regexp.Regexp, 0, len(c.ExcludePatterns))
	for _, p := range c.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return mdparse.Options{}, fmt.Errorf("compile exclude pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return mdparse.Options{
		MaxChars:        c.MaxChars,
		OverlapRows:     c.OverlapRows,
		SeedPrefix:      c.SeedPrefix,
		ExcludePatterns: patterns,
	}, nil
}
