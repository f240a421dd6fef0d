package domain

import "time"

// Field names stored in the index.
const (
	FieldTitle   = "title"
	FieldContent = "content"
)

// Document is a single indexed file. Path is the join key across every match.
type Document struct {
	ID      string
	Path    string
	Title   string
	Content string
	ModTime time.Time

	// FieldLengths is the token count of each indexed field.
	FieldLengths map[string]int
}

// Hit is one ranked result of an index query. Content is empty unless the
// content field was searched.
type Hit struct {
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score"`
}

// TitleSummary pairs a title hit with its precomputed summary, if any.
type TitleSummary struct {
	TitleInfo  Hit    `json:"title_info"`
	Summary    string `json:"title_summary,omitempty"`
	HasSummary bool   `json:"has_summary"`
}

// ScoredParagraph is a paragraph and its token overlap with the question.
type ScoredParagraph struct {
	Text         string
	OverlapScore int
}

// ContentMatch is a content hit whose content has been replaced by the
// selected paragraphs.
type ContentMatch struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SearchResult is everything retrieval hands to context assembly.
// No path appears in both TitleSummaries and ContentMatches.
type SearchResult struct {
	TitleSummaries []TitleSummary `json:"title_summaries"`
	ContentMatches []ContentMatch `json:"content_matches"`
}

// Context is the bounded material handed to the generator.
type Context struct {
	Question             string   `json:"question"`
	TitleRelated         string   `json:"title_related"`
	TitleSummaryText     string   `json:"title_summary_text"`
	ContentRelatedTitles string   `json:"content_related_titles"`
	Body                 string   `json:"assembled_body"`
	IncludedPaths        []string `json:"included_paths"`
	BudgetTokens         int      `json:"budget_tokens"`
	UsedTokens           int      `json:"used_tokens"`
}

// Answer is the response shape of one question-answer cycle.
type Answer struct {
	TitleSummary      string `json:"title_summary"`
	ModelAnswer       string `json:"model_answer"`
	TitleRelated      string `json:"title_related"`
	ContentRelated    string `json:"content_related"`
	NoRelevantContent bool   `json:"-"`
}

// TaggedWord is a segmented word with its part-of-speech tag.
type TaggedWord struct {
	Word string
	Tag  string
}

type Posting struct {
	DocID string
	TF    int
}

// FieldStats holds per-field corpus statistics used by BM25.
type FieldStats struct {
	TotalDocs int     `json:"total_docs"`
	AvgLen    float64 `json:"avg_len"`
}

type Stats struct {
	TotalDocs int                   `json:"total_docs"`
	Fields    map[string]FieldStats `json:"fields"`
}
