package analyzer

import (
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/llms"
)

// TiktokenCounter counts tokens with the tiktoken encoding of a model.
// langchaingo falls back to an estimate when the encoding is unavailable.
type TiktokenCounter struct {
	model string
}

func NewTiktokenCounter(model string) *TiktokenCounter {
	return &TiktokenCounter{model: model}
}

func (c *TiktokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return llms.CountTokens(c.model, text)
}

// ApproxCounter estimates token counts without a vocabulary.
// Each CJK character counts as one token; other words as ~1.3 tokens.
type ApproxCounter struct{}

func NewApproxCounter() *ApproxCounter {
	return &ApproxCounter{}
}

// CountTokens returns an approximate token count for LLM budget estimation.
func (c *ApproxCounter) CountTokens(text string) int {
	cjk := 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		}
	}
	words := splitWords(text)
	if len(words) == 0 && cjk == 0 {
		return 0
	}
	return cjk + int(float64(len(words))*1.3)
}

// splitWords splits text into non-CJK words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') && !isCJK(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
