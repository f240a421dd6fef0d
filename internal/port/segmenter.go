package port

import "docqa/internal/domain"

// Segmenter splits text into words. Implementations must be pure functions
// of the input and a dictionary fixed at construction.
type Segmenter interface {
	// Segment returns search-mode tokens in order.
	Segment(text string) []string

	// Tag returns words with their part-of-speech tags in order.
	Tag(text string) []domain.TaggedWord
}
