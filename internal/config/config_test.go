package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8090",
		APIKey:         "test-key",
		DataDir:        "./data",
		OutputDir:      "./output",
		MaxChars:       1000,
		OverlapRows:    2,
		SeedPrefix:     "?",
		WorkerCount:    4,
		MaxQueueSize:   100,
		JobTTL:         time.Hour,
		MaxUploadBytes: 1 << 20,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "k")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxChars != 1000 {
		t.Errorf("MaxChars = %d, want 1000", cfg.MaxChars)
	}
	if cfg.OverlapRows != 2 {
		t.Errorf("OverlapRows = %d, want 2", cfg.OverlapRows)
	}
	if cfg.SeedPrefix != "?" {
		t.Errorf("SeedPrefix = %q, want ?", cfg.SeedPrefix)
	}
	if cfg.ChromaCollection != "tag_rag_vectors" {
		t.Errorf("ChromaCollection = %q, want tag_rag_vectors", cfg.ChromaCollection)
	}
	if len(cfg.FileExtensions) != 2 || cfg.FileExtensions[0] != ".md" {
		t.Errorf("FileExtensions = %v, want [.md .markdown]", cfg.FileExtensions)
	}
}

func TestLoad_ExcludePatternsFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("EXCLUDE_PATTERNS", `^#secret/,^#seed/tmp/`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.ExcludePatterns) != 2 {
		t.Fatalf("expected 2 patterns, got %v", cfg.ExcludePatterns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero max chars", func(c *Config) { c.MaxChars = 0 }, "MAX_CHARS"},
		{"negative overlap", func(c *Config) { c.OverlapRows = -1 }, "OVERLAP_ROWS"},
		{"long seed prefix", func(c *Config) { c.SeedPrefix = "?!" }, "SEED_PREFIX"},
		{"empty seed prefix", func(c *Config) { c.SeedPrefix = "" }, "SEED_PREFIX"},
		{"bad regex", func(c *Config) { c.ExcludePatterns = []string{"("} }, "EXCLUDE_PATTERNS"},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }, "WORKER_COUNT"},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParserOptions(t *testing.T) {
	cfg := validConfig()
	cfg.ExcludePatterns = []string{`^#secret/`}

	opts, err := cfg.ParserOptions()
	if err != nil {
		t.Fatalf("ParserOptions: %v", err)
	}
	if opts.MaxChars != cfg.MaxChars || opts.OverlapRows != cfg.OverlapRows {
		t.Errorf("options %+v do not mirror config", opts)
	}
	if len(opts.ExcludePatterns) != 1 || !opts.ExcludePatterns[0].MatchString("#secret/x") {
		t.Errorf("exclude patterns not compiled: %v", opts.ExcludePatterns)
	}
}
