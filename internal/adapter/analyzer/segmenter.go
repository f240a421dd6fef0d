package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-ego/gse"

	"docqa/internal/domain"
)

// Segmenter wraps a gse dictionary segmenter. The dictionary is loaded once
// at construction; Segment and Tag only read it and are safe for concurrent use.
type Segmenter struct {
	seg gse.Segmenter
	hmm bool
}

// SegmenterOptions configures dictionary loading.
type SegmenterOptions struct {
	DictFiles []string // empty loads the embedded Chinese dictionary
	HMM       bool     // recognise out-of-vocabulary words
}

// NewSegmenter loads the dictionary and returns a ready Segmenter.
func NewSegmenter(opts SegmenterOptions) (*Segmenter, error) {
	s := &Segmenter{hmm: opts.HMM}
	s.seg.SkipLog = true

	var err error
	if len(opts.DictFiles) > 0 {
		err = s.seg.LoadDict(strings.Join(opts.DictFiles, ","))
	} else {
		err = s.seg.LoadDictEmbed()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	return s, nil
}

// Segment returns search-mode tokens, lowercased, with whitespace and
// punctuation-only tokens dropped.
func (s *Segmenter) Segment(text string) []string {
	if text == "" {
		return nil
	}
	return normalizeTokens(s.seg.CutSearch(text, s.hmm))
}

// Tag returns words with part-of-speech tags, normalised like Segment.
func (s *Segmenter) Tag(text string) []domain.TaggedWord {
	if text == "" {
		return nil
	}
	pos := s.seg.Pos(text, false)
	tagged := make([]domain.TaggedWord, 0, len(pos))
	for _, p := range pos {
		word, ok := normalizeToken(p.Text)
		if !ok {
			continue
		}
		tagged = append(tagged, domain.TaggedWord{Word: word, Tag: p.Pos})
	}
	return tagged
}

func normalizeTokens(raw []string) []string {
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		if t, ok := normalizeToken(r); ok {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// normalizeToken lowercases a token and rejects it when it has no letter or digit.
func normalizeToken(raw string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return "", false
	}
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return t, true
		}
	}
	return "", false
}

// TokenSet collapses tokens into a set.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// TermFrequencies counts each token.
func TermFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
