package usecase

import (
	"log/slog"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

const (
	// ContentBlockLabel heads every content block of the assembled body.
	ContentBlockLabel = "内容相关文档："

	// CitationSeparator joins the titles of included content blocks.
	CitationSeparator = "；"

	// NoRelevantContentMessage is shown instead of a model answer when the
	// assembled body is empty.
	NoRelevantContentMessage = "未找到相关内容生成回答"
)

// PackUseCase assembles a SearchResult into a token-bounded context.
type PackUseCase struct {
	counter port.TokenCounter
	logger  *slog.Logger
}

func NewPackUseCase(counter port.TokenCounter, logger *slog.Logger) *PackUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PackUseCase{
		counter: counter,
		logger:  logger.With("component", "pack"),
	}
}

// Assemble appends content matches in order while their summed token count
// stays within budget and stops at the first one that does not fit. Title
// summaries are not counted against the budget. When no block is included
// the partially filled context is returned with domain.ErrNoRelevantContent.
func (u *PackUseCase) Assemble(question string, result domain.SearchResult, budget int) (domain.Context, error) {
	c := domain.Context{
		Question:      question,
		BudgetTokens:  budget,
		IncludedPaths: []string{},
	}

	var titles, summaries strings.Builder
	for _, ts := range result.TitleSummaries {
		titles.WriteString(ts.TitleInfo.Title)
		titles.WriteString("\n")
		if ts.HasSummary {
			summaries.WriteString(ts.Summary)
			summaries.WriteString("\n\n")
		}
	}
	c.TitleRelated = titles.String()
	c.TitleSummaryText = summaries.String()

	var body strings.Builder
	var included []string
	for i, m := range result.ContentMatches {
		tokens := u.counter.CountTokens(m.Content)
		if c.UsedTokens+tokens > budget {
			u.logger.Debug("context budget reached",
				"path", m.Path, "tokens", tokens, "used", c.UsedTokens, "budget", budget,
				"dropped", len(result.ContentMatches)-i)
			break
		}
		body.WriteString(ContentBlockLabel)
		body.WriteString("\n")
		body.WriteString(m.Title)
		body.WriteString("\n")
		body.WriteString(m.Content)
		body.WriteString("\n\n")

		c.UsedTokens += tokens
		c.IncludedPaths = append(c.IncludedPaths, m.Path)
		included = append(included, m.Title)
	}
	c.Body = body.String()
	c.ContentRelatedTitles = strings.Join(included, CitationSeparator)

	if c.Body == "" {
		return c, domain.ErrNoRelevantContent
	}
	return c, nil
}
