package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is looked up in the corpus root.
	ConfigFileName = "docqa.yaml"
	// StateDirName holds the index and an optional config.yaml.
	StateDirName = ".docqa"
)

// Config holds all configuration for the QA service.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Summary   SummaryConfig   `yaml:"summary"`
	Pack      PackConfig      `yaml:"pack"`
	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig holds ingestion and scoring configuration.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	K1       float64  `yaml:"k1"`
	B        float64  `yaml:"b"`
	Workers  int      `yaml:"workers"`
}

// SegmenterConfig controls word segmentation and tagging.
type SegmenterConfig struct {
	DictFiles []string `yaml:"dict_files"` // empty = embedded dictionary
	HMM       bool     `yaml:"hmm"`
	PlaceTags []string `yaml:"place_tags"`
	Stopwords []string `yaml:"stopwords"`
}

// RetrieveConfig holds title, content and paragraph matching parameters.
type RetrieveConfig struct {
	TitleScoreThreshold float64 `yaml:"title_score_threshold"`
	ContentTopK         int     `yaml:"content_top_k"`
	ParagraphThreshold  int     `yaml:"paragraph_threshold"`
	MinParagraphLength  int     `yaml:"min_paragraph_length"`
}

// SummaryConfig locates precomputed title summaries.
type SummaryConfig struct {
	Dir            string   `yaml:"dir"`
	ScoreThreshold float64  `yaml:"score_threshold"`
	StripSuffixes  []string `yaml:"strip_suffixes"`
	Suffix         string   `yaml:"suffix"`
}

// PackConfig holds context assembly configuration.
type PackConfig struct {
	MaxContextTokens int    `yaml:"max_context_tokens"`
	Tokenizer        string `yaml:"tokenizer"`       // "tiktoken" or "approx"
	TokenizerModel   string `yaml:"tokenizer_model"` // model name passed to tiktoken
	Output           string `yaml:"output"`
}

// GeneratorConfig selects and tunes the answer model.
type GeneratorConfig struct {
	Provider     string  `yaml:"provider"` // "ollama", "openai", "mock"
	Model        string  `yaml:"model"`
	BaseURL      string  `yaml:"base_url"`
	APIKeyEnv    string  `yaml:"api_key_env"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt"`
}

// ServerConfig holds HTTP service configuration.
type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int     `yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes: []string{"**/*.docx", "**/*.txt", "**/*.md", "**/*.html"},
			Excludes: []string{"**/.docqa/**", "**/.git/**", "**/~$*"},
			K1:       1.2,
			B:        0.75,
			Workers:  4,
		},
		Segmenter: SegmenterConfig{
			HMM:       true,
			PlaceTags: []string{"ns"},
			Stopwords: []string{"的", "和", "是", "在", "有", "为", "等", "the", "and", "is"},
		},
		Retrieve: RetrieveConfig{
			TitleScoreThreshold: 50.0,
			ContentTopK:         3,
			ParagraphThreshold:  3,
			MinParagraphLength:  30,
		},
		Summary: SummaryConfig{
			Dir:            "summary",
			ScoreThreshold: 50.0,
			StripSuffixes:  []string{".docx"},
			Suffix:         "_sum.txt",
		},
		Pack: PackConfig{
			MaxContextTokens: 30000,
			Tokenizer:        "tiktoken",
			TokenizerModel:   "gpt-4",
			Output:           "json",
		},
		Generator: GeneratorConfig{
			Provider:     "ollama",
			Model:        "qwen2.5:7b-instruct",
			BaseURL:      "http://localhost:11434",
			APIKeyEnv:    "OPENAI_API_KEY",
			Temperature:  0.7,
			MaxTokens:    512,
			SystemPrompt: "你是一名营商政策专家。",
		},
		Server: ServerConfig{
			Addr:      "0.0.0.0:5000",
			RateLimit: 5,
			Burst:     10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, StateDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SummaryDir resolves the summary directory against the corpus root.
func (c *Config) SummaryDir(root string) string {
	if filepath.IsAbs(c.Summary.Dir) {
		return c.Summary.Dir
	}
	return filepath.Join(root, c.Summary.Dir)
}

// IndexDBPath returns the path to the index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, StateDirName, "index.db")
}

// EnsureStateDir ensures the state directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, StateDirName), 0755)
}
