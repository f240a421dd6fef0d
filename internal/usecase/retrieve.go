package usecase

import (
	"log/slog"
	"strings"

	"docqa/internal/domain"
)

// RetrieveUseCase runs title and content matching for a question and merges
// them so that no document is returned by both.
type RetrieveUseCase struct {
	titles     *TitleMatcher
	summaries  *SummaryLookup
	contents   *ContentMatcher
	paragraphs *ParagraphRanker
	logger     *slog.Logger
}

func NewRetrieveUseCase(
	titles *TitleMatcher,
	summaries *SummaryLookup,
	contents *ContentMatcher,
	paragraphs *ParagraphRanker,
	logger *slog.Logger,
) *RetrieveUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrieveUseCase{
		titles:     titles,
		summaries:  summaries,
		contents:   contents,
		paragraphs: paragraphs,
		logger:     logger.With("component", "retrieve"),
	}
}

// Retrieve returns at most TitleResultLimit title summaries and up to
// numResults content matches whose content is replaced by the paragraphs
// scoring at least threshold. Any matcher failure fails the whole call.
func (u *RetrieveUseCase) Retrieve(question string, numResults, threshold int) (domain.SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return domain.SearchResult{}, domain.ErrEmptyQuestion
	}

	titleHits, err := u.titles.Match(question, TitleResultLimit)
	if err != nil {
		return domain.SearchResult{}, err
	}

	result := domain.SearchResult{
		TitleSummaries: make([]domain.TitleSummary, 0, len(titleHits)),
		ContentMatches: []domain.ContentMatch{},
	}
	titlePaths := make(map[string]struct{}, len(titleHits))
	for i := range titleHits {
		summary, ok := u.summaries.Lookup(&titleHits[i])
		result.TitleSummaries = append(result.TitleSummaries, domain.TitleSummary{
			TitleInfo:  titleHits[i],
			Summary:    summary,
			HasSummary: ok,
		})
		titlePaths[titleHits[i].Path] = struct{}{}
	}

	contentHits, err := u.contents.Match(question, numResults)
	if err != nil {
		return domain.SearchResult{}, err
	}

	for _, h := range contentHits {
		if _, dup := titlePaths[h.Path]; dup {
			u.logger.Debug("content hit already matched by title", "path", h.Path)
			continue
		}
		result.ContentMatches = append(result.ContentMatches, domain.ContentMatch{
			Path:    h.Path,
			Title:   h.Title,
			Content: u.paragraphs.Select(h.Content, question, threshold),
		})
	}

	u.logger.Info("retrieved",
		"question", question,
		"title_hits", len(result.TitleSummaries),
		"content_hits", len(contentHits),
		"content_matches", len(result.ContentMatches))
	return result, nil
}
