package usecase

import (
	"log/slog"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// SummaryLookup attaches precomputed summaries to confident title hits.
type SummaryLookup struct {
	store         port.SummaryStore
	threshold     float64
	stripSuffixes []string
	suffix        string
	logger        *slog.Logger
}

// SummaryLookupOptions configures a SummaryLookup. The threshold is
// independent of the title matcher's own threshold.
type SummaryLookupOptions struct {
	ScoreThreshold float64
	StripSuffixes  []string
	Suffix         string
}

func NewSummaryLookup(store port.SummaryStore, opts SummaryLookupOptions, logger *slog.Logger) *SummaryLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryLookup{
		store:         store,
		threshold:     opts.ScoreThreshold,
		stripSuffixes: opts.StripSuffixes,
		suffix:        opts.Suffix,
		logger:        logger.With("component", "summary-lookup"),
	}
}

// SummaryKey derives the summary resource name of a document title:
// the first matching suffix is stripped case-insensitively and suffix is
// appended, so "Report.docx" becomes "Report_sum.txt".
func SummaryKey(title string, stripSuffixes []string, suffix string) string {
	for _, s := range stripSuffixes {
		n := len(title) - len(s)
		if s != "" && n >= 0 && strings.EqualFold(title[n:], s) {
			title = title[:n]
			break
		}
	}
	return title + suffix
}

// Lookup returns the summary for hit. A nil hit, a score below the
// threshold, a missing resource and an unreadable resource all mean no
// summary; only the last is logged as an error.
func (l *SummaryLookup) Lookup(hit *domain.Hit) (string, bool) {
	if hit == nil || hit.Score < l.threshold {
		return "", false
	}

	key := SummaryKey(hit.Title, l.stripSuffixes, l.suffix)
	text, ok, err := l.store.Lookup(key)
	if err != nil {
		l.logger.Error("summary lookup failed", "key", key, "path", hit.Path, "err", err)
		return "", false
	}
	if !ok {
		l.logger.Info("summary not found", "key", key, "path", hit.Path)
		return "", false
	}
	return text, true
}
