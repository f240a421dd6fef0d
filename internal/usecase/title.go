package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"docqa/internal/adapter/analyzer"
	"docqa/internal/adapter/query"
	"docqa/internal/domain"
	"docqa/internal/port"
)

// TitleResultLimit caps title matches per question. Summary lookup and
// deduplication assume at most this many title hits.
const TitleResultLimit = 1

// TitleMatcher finds documents whose title contains every place name of the
// question and at least one of its keywords.
type TitleMatcher struct {
	index     port.Index
	segmenter port.Segmenter
	placeTags map[string]struct{}
	stopwords map[string]struct{}
	threshold float64
	logger    *slog.Logger
}

// TitleMatcherOptions configures a TitleMatcher.
type TitleMatcherOptions struct {
	PlaceTags      []string
	Stopwords      []string
	ScoreThreshold float64
}

func NewTitleMatcher(index port.Index, segmenter port.Segmenter, opts TitleMatcherOptions, logger *slog.Logger) *TitleMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleMatcher{
		index:     index,
		segmenter: segmenter,
		placeTags: analyzer.TokenSet(opts.PlaceTags),
		stopwords: analyzer.TokenSet(opts.Stopwords),
		threshold: opts.ScoreThreshold,
		logger:    logger.With("component", "title-matcher"),
	}
}

// Places returns the words of question tagged as place names, in order and
// with duplicates kept.
func (m *TitleMatcher) Places(question string) []string {
	var places []string
	for _, w := range m.segmenter.Tag(question) {
		if _, ok := m.placeTags[w.Tag]; ok {
			places = append(places, w.Word)
		}
	}
	return places
}

// Keywords returns the search-mode tokens of question minus stopwords.
func (m *TitleMatcher) Keywords(question string) []string {
	var keywords []string
	for _, tok := range m.segmenter.Segment(question) {
		if _, stop := m.stopwords[tok]; !stop {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// Query builds the title query for question: all places AND any keyword.
// It returns domain.ErrEmptyQuestion when no keyword survives filtering.
func (m *TitleMatcher) Query(question string) (query.Node, error) {
	keywords := m.Keywords(question)
	if len(keywords) == 0 {
		return nil, domain.ErrEmptyQuestion
	}
	places := m.Places(question)

	return query.And(
		query.And(query.Terms(domain.FieldTitle, places)...),
		query.Or(query.Terms(domain.FieldTitle, keywords)...),
	), nil
}

// Match returns up to limit title hits scoring at least the threshold.
// A question without keywords yields no hits and no index access.
func (m *TitleMatcher) Match(question string, limit int) ([]domain.Hit, error) {
	q, err := m.Query(question)
	if errors.Is(err, domain.ErrEmptyQuestion) {
		m.logger.Debug("no title keywords", "question", question)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	qs := q.String()
	hits, err := m.index.Search(domain.FieldTitle, qs, limit)
	if err != nil {
		m.logger.Error("title search failed", "query", qs, "err", err)
		return nil, fmt.Errorf("title search %q: %w", qs, err)
	}

	kept := make([]domain.Hit, 0, len(hits))
	for _, h := range hits {
		if h.Score >= m.threshold {
			kept = append(kept, h)
		}
	}
	m.logger.Debug("title search", "query", qs, "hits", len(hits), "kept", len(kept))
	return kept, nil
}
