package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"docqa/internal/adapter/analyzer"
	"docqa/internal/domain"
	"docqa/internal/port"
)

// ParagraphSeparator joins selected paragraphs.
const ParagraphSeparator = "\n\n"

// Full-width terminators split unconditionally; ASCII ones only before
// whitespace or the end of text so that "3.5" stays whole.
var sentenceEnd = regexp.MustCompile(`[。！？]\s*|[.!?](?:\s+|$)`)

// SplitParagraphs splits text after sentence-terminal punctuation, trims the
// pieces and drops those shorter than minLength characters.
func SplitParagraphs(text string, minLength int) []string {
	var paragraphs []string
	for _, p := range sentenceEnd.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" && utf8.RuneCountInString(p) >= minLength {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// ParagraphRanker keeps the paragraphs of a document that share enough
// tokens with the question.
type ParagraphRanker struct {
	segmenter port.Segmenter
	minLength int
}

func NewParagraphRanker(segmenter port.Segmenter, minLength int) *ParagraphRanker {
	return &ParagraphRanker{
		segmenter: segmenter,
		minLength: minLength,
	}
}

// Rank scores every paragraph of content by the number of distinct tokens it
// shares with question. The result is ordered by score, highest first, with
// ties in document order.
func (r *ParagraphRanker) Rank(content, question string) []domain.ScoredParagraph {
	paragraphs := SplitParagraphs(content, r.minLength)
	if len(paragraphs) == 0 {
		return nil
	}

	questionTokens := analyzer.TokenSet(r.segmenter.Segment(question))
	scored := make([]domain.ScoredParagraph, len(paragraphs))
	for i, p := range paragraphs {
		scored[i] = domain.ScoredParagraph{
			Text:         p,
			OverlapScore: overlap(analyzer.TokenSet(r.segmenter.Segment(p)), questionTokens),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OverlapScore > scored[j].OverlapScore
	})
	return scored
}

// Select joins the ranked paragraphs scoring at least threshold. It returns
// "" when nothing qualifies.
func (r *ParagraphRanker) Select(content, question string, threshold int) string {
	var kept []string
	for _, sp := range r.Rank(content, question) {
		if sp.OverlapScore < threshold {
			break
		}
		kept = append(kept, sp.Text)
	}
	return strings.Join(kept, ParagraphSeparator)
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
