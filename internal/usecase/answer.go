package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// AnswerOptions holds the per-question retrieval parameters.
type AnswerOptions struct {
	NumResults         int
	ParagraphThreshold int
	MaxContextTokens   int
}

// AnswerUseCase runs one question-answer cycle: retrieve, assemble, generate.
type AnswerUseCase struct {
	retrieve  *RetrieveUseCase
	pack      *PackUseCase
	generator port.Generator
	opts      AnswerOptions
	logger    *slog.Logger
}

func NewAnswerUseCase(
	retrieve *RetrieveUseCase,
	pack *PackUseCase,
	generator port.Generator,
	opts AnswerOptions,
	logger *slog.Logger,
) *AnswerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{
		retrieve:  retrieve,
		pack:      pack,
		generator: generator,
		opts:      opts,
		logger:    logger.With("component", "answer"),
	}
}

// Context retrieves and assembles the context for question without
// generating. domain.ErrNoRelevantContent is returned with the partial
// context when nothing fits.
func (u *AnswerUseCase) Context(question string) (domain.Context, error) {
	result, err := u.retrieve.Retrieve(question, u.opts.NumResults, u.opts.ParagraphThreshold)
	if err != nil {
		return domain.Context{}, err
	}
	return u.pack.Assemble(question, result, u.opts.MaxContextTokens)
}

// Answer answers question. When no content fits the context the generator
// is not called and the answer carries NoRelevantContentMessage.
func (u *AnswerUseCase) Answer(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)

	c, err := u.Context(question)
	if errors.Is(err, domain.ErrNoRelevantContent) {
		u.logger.Info("no relevant content", "question", question)
		return domain.Answer{
			TitleSummary:      c.TitleSummaryText,
			ModelAnswer:       NoRelevantContentMessage,
			TitleRelated:      c.TitleRelated,
			NoRelevantContent: true,
		}, nil
	}
	if err != nil {
		return domain.Answer{}, err
	}

	text, err := u.generator.Generate(ctx, question, c)
	if err != nil {
		u.logger.Error("generation failed", "question", question, "model", u.generator.ModelName(), "err", err)
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.Answer{
		TitleSummary:   c.TitleSummaryText,
		ModelAnswer:    text,
		TitleRelated:   c.TitleRelated,
		ContentRelated: c.ContentRelatedTitles,
	}, nil
}
