package usecase

import (
	"fmt"
	"log/slog"

	"docqa/internal/adapter/query"
	"docqa/internal/domain"
	"docqa/internal/port"
)

// ContentMatcher searches document bodies with any token of the question.
// Unlike title matching there is no stopword filter and no score threshold.
type ContentMatcher struct {
	index     port.Index
	segmenter port.Segmenter
	logger    *slog.Logger
}

func NewContentMatcher(index port.Index, segmenter port.Segmenter, logger *slog.Logger) *ContentMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentMatcher{
		index:     index,
		segmenter: segmenter,
		logger:    logger.With("component", "content-matcher"),
	}
}

// Query ORs every search-mode token of question. It returns nil when the
// question has no tokens.
func (m *ContentMatcher) Query(question string) query.Node {
	return query.Or(query.Terms("", m.segmenter.Segment(question))...)
}

// Match returns the top limit documents with their full content.
func (m *ContentMatcher) Match(question string, limit int) ([]domain.Hit, error) {
	q := m.Query(question)
	if q == nil {
		return nil, nil
	}

	qs := q.String()
	hits, err := m.index.Search(domain.FieldContent, qs, limit)
	if err != nil {
		m.logger.Error("content search failed", "query", qs, "err", err)
		return nil, fmt.Errorf("content search %q: %w", qs, err)
	}
	m.logger.Debug("content search", "query", qs, "hits", len(hits))
	return hits, nil
}
