// Package llm adapts chat models to port.Generator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/config"
	"docqa/internal/domain"
	"docqa/internal/port"
)

var _ port.Generator = (*ChatGenerator)(nil)

// ErrEmptyResponse is returned when the model produced no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// ChatGenerator sends a system prompt and the rendered answer prompt to a
// langchaingo chat model.
type ChatGenerator struct {
	model        llms.Model
	name         string
	systemPrompt string
	temperature  float64
	maxTokens    int
	logger       *slog.Logger
}

// NewChatGenerator wraps an already constructed model.
func NewChatGenerator(model llms.Model, cfg config.GeneratorConfig, logger *slog.Logger) *ChatGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatGenerator{
		model:        model,
		name:         cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		logger:       logger.With("component", "generator", "model", cfg.Model),
	}
}

// New builds the generator selected by cfg.Provider.
func New(cfg config.GeneratorConfig, logger *slog.Logger) (port.Generator, error) {
	switch cfg.Provider {
	case "mock":
		return NewEcho(cfg.Model), nil

	case "ollama", "":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama: %w", err)
		}
		return NewChatGenerator(model, cfg, logger), nil

	case "openai":
		token := "none"
		if cfg.APIKeyEnv != "" {
			if v := os.Getenv(cfg.APIKeyEnv); v != "" {
				token = v
			}
		}
		opts := []openai.Option{openai.WithModel(cfg.Model), openai.WithToken(token)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai: %w", err)
		}
		return NewChatGenerator(model, cfg, logger), nil
	}
	return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
}

func (g *ChatGenerator) ModelName() string {
	return g.name
}

func (g *ChatGenerator) Generate(ctx context.Context, question string, c domain.Context) (string, error) {
	prompt, err := RenderPrompt(question, c)
	if err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, content, opts...)
	elapsed := time.Since(start)
	if err != nil {
		g.logger.Error("generation failed", "elapsed", elapsed, "err", err)
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		g.logger.Warn("no choices returned", "elapsed", elapsed)
		return "", ErrEmptyResponse
	}

	g.logger.Info("answer generated", "elapsed_seconds", fmt.Sprintf("%.2f", elapsed.Seconds()))
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
