package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if c.Index.K1 < 0 {
		add("index.k1", "k1 must not be negative")
	}
	if c.Index.B < 0 || c.Index.B > 1 {
		add("index.b", "b must be between 0 and 1")
	}
	if c.Index.Workers < 1 {
		add("index.workers", "workers must be positive")
	}

	if c.Retrieve.TitleScoreThreshold < 0 {
		add("retrieve.title_score_threshold", "threshold must not be negative")
	}
	if c.Retrieve.ContentTopK < 1 {
		add("retrieve.content_top_k", "content_top_k must be at least 1")
	}
	if c.Retrieve.ParagraphThreshold < 0 {
		add("retrieve.paragraph_threshold", "threshold must not be negative")
	}
	if c.Retrieve.MinParagraphLength < 0 {
		add("retrieve.min_paragraph_length", "length must not be negative")
	}

	if c.Summary.ScoreThreshold < 0 {
		add("summary.score_threshold", "threshold must not be negative")
	}
	if strings.TrimSpace(c.Summary.Suffix) == "" {
		add("summary.suffix", "suffix is required")
	}

	if c.Pack.MaxContextTokens < 0 {
		add("pack.max_context_tokens", "budget must not be negative")
	}
	switch c.Pack.Tokenizer {
	case "tiktoken", "approx":
	default:
		add("pack.tokenizer", fmt.Sprintf("unknown tokenizer %q", c.Pack.Tokenizer))
	}

	switch c.Generator.Provider {
	case "ollama", "openai", "mock":
	default:
		add("generator.provider", fmt.Sprintf("unsupported provider %q", c.Generator.Provider))
	}
	if c.Generator.BaseURL != "" {
		if _, err := url.Parse(c.Generator.BaseURL); err != nil {
			add("generator.base_url", "invalid base URL")
		}
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		add("generator.temperature", "temperature must be between 0 and 2")
	}
	if c.Generator.MaxTokens < 1 {
		add("generator.max_tokens", "max_tokens must be positive")
	}

	if c.Server.RateLimit < 0 {
		add("server.rate_limit", "rate_limit must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
