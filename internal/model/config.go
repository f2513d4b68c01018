package model

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Config holds all edgarscan settings
type Config struct {
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	Lexicon      LexiconConfig      `yaml:"lexicon" mapstructure:"lexicon"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`

	Logger *slog.Logger `yaml:"-" mapstructure:"-"`
}

// ExtractionConfig controls section extraction
type ExtractionConfig struct {
	Form           string   `yaml:"form" mapstructure:"form"`                         // 10-K, 10-Q or 8-K
	Items          []string `yaml:"items,omitempty" mapstructure:"items"`             // Empty means the form's default items
	Exhibit991     bool     `yaml:"exhibit_991" mapstructure:"exhibit_991"`           // Also extract EX-99.1 (8-K only)
	MaxFilingBytes int64    `yaml:"max_filing_bytes" mapstructure:"max_filing_bytes"` // Larger filings fail with ErrFilingTooLarge
	InputDir       string   `yaml:"input_dir" mapstructure:"input_dir"`               // Base directory for relative filing paths
	IDColumn       string   `yaml:"id_column" mapstructure:"id_column"`               // Index column holding the document id
	PathColumn     string   `yaml:"path_column" mapstructure:"path_column"`           // Index column holding the filing address
}

// LexiconConfig points at the lexicon files used for counting
type LexiconConfig struct {
	GeneralPath  string `yaml:"general_path" mapstructure:"general_path"`
	EntityPath   string `yaml:"entity_path" mapstructure:"entity_path"`
	CSVColumn    int    `yaml:"csv_column" mapstructure:"csv_column"`       // Column read from .csv lexicons
	EntityColumn int    `yaml:"entity_column" mapstructure:"entity_column"` // Column read from a .csv entity lexicon
	TriggerMode  string `yaml:"trigger_mode" mapstructure:"trigger_mode"`   // exact or lemma
}

// OutputConfig controls where results go
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`               // Root for extracted item text files
	IndexPath string `yaml:"index_path" mapstructure:"index_path"` // Output CSV
	DBPath    string `yaml:"db_path,omitempty" mapstructure:"db_path"`
	Count     bool   `yaml:"count" mapstructure:"count"` // Count indicators during extraction
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ConcurrencyConfig sets the number of shards processed in parallel
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// HTTPConfig applies to filings addressed by http(s) URL
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Retries       int           `yaml:"retries" mapstructure:"retries"` // Retries after the first attempt
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// RateLimitingConfig limits requests per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls caching of fetched filing bodies
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Form:           string(Form10K),
			Exhibit991:     true,
			MaxFilingBytes: 256 << 20,
			IDColumn:       "CIK",
			PathColumn:     "FileName",
		},
		Lexicon: LexiconConfig{
			CSVColumn:    0,
			EntityColumn: 1,
			TriggerMode:  "lemma",
		},
		Output: OutputConfig{
			Dir:       "./edgarscan-items",
			IndexPath: "./edgarscan-summary.csv",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "edgarscan/0.1 (research; contact@example.com)",
			MaxBodyBytes: 256 << 20,
			Retries:      3,
		},
		RateLimiting: RateLimitingConfig{
			// SEC fair access policy allows 10 requests per second
			RequestsPerSecond: 8,
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if _, err := ParseFormType(c.Extraction.Form); err != nil {
		return fmt.Errorf("%w: extraction.form: %v", ErrInvalidConfig, err)
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("%w: concurrency.workers must be positive", ErrInvalidConfig)
	}
	if c.Extraction.MaxFilingBytes <= 0 {
		return fmt.Errorf("%w: extraction.max_filing_bytes must be positive", ErrInvalidConfig)
	}
	switch c.Lexicon.TriggerMode {
	case "exact", "lemma":
	default:
		return fmt.Errorf("%w: lexicon.trigger_mode must be exact or lemma, got %q", ErrInvalidConfig, c.Lexicon.TriggerMode)
	}
	return nil
}

// FormType returns the parsed extraction form type
func (c *Config) FormType() FormType {
	ft, _ := ParseFormType(c.Extraction.Form)
	return ft
}

func defaultCacheDir() string {
	return ".edgarscan-cache"
}
