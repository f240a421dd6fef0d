package usecase

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"docqa/internal/domain"
)

// wordSegmenter treats runs of letters and digits as words, so test text is
// written with spaces between words.
type wordSegmenter struct {
	tags map[string]string
}

func (s wordSegmenter) Segment(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (s wordSegmenter) Tag(text string) []domain.TaggedWord {
	words := s.Segment(text)
	tagged := make([]domain.TaggedWord, len(words))
	for i, w := range words {
		tag, ok := s.tags[w]
		if !ok {
			tag = "n"
		}
		tagged[i] = domain.TaggedWord{Word: w, Tag: tag}
	}
	return tagged
}

type searchCall struct {
	field string
	query string
	limit int
}

type fakeIndex struct {
	hits  map[string][]domain.Hit
	errs  map[string]error
	calls []searchCall
}

func (f *fakeIndex) Search(field, q string, limit int) ([]domain.Hit, error) {
	f.calls = append(f.calls, searchCall{field: field, query: q, limit: limit})
	if err := f.errs[field]; err != nil {
		return nil, err
	}
	hits := f.hits[field]
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

type fakeSummaries struct {
	texts map[string]string
	err   error
	keys  []string
}

func (f *fakeSummaries) Lookup(key string) (string, bool, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return "", false, f.err
	}
	text, ok := f.texts[key]
	return text, ok, nil
}

// runeCounter counts one token per rune.
type runeCounter struct{}

func (runeCounter) CountTokens(text string) int {
	return utf8.RuneCountInString(text)
}

type fakeGenerator struct {
	answer   string
	err      error
	calls    int
	question string
	context  domain.Context
}

func (g *fakeGenerator) Generate(_ context.Context, question string, c domain.Context) (string, error) {
	g.calls++
	g.question = question
	g.context = c
	return g.answer, g.err
}

func (g *fakeGenerator) ModelName() string {
	return "fake"
}

var testStopwords = []string{"的", "和", "是", "在", "有", "为", "等", "the", "and", "is"}

func newTestTitleMatcher(index *fakeIndex, tags map[string]string, threshold float64) *TitleMatcher {
	return NewTitleMatcher(index, wordSegmenter{tags: tags}, TitleMatcherOptions{
		PlaceTags:      []string{"ns"},
		Stopwords:      testStopwords,
		ScoreThreshold: threshold,
	}, nil)
}
