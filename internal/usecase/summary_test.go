package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestSummaryKey(t *testing.T) {
	strip := []string{".docx"}
	tests := []struct {
		title string
		want  string
	}{
		{"Report.docx", "Report_sum.txt"},
		{"Report.DOCX", "Report_sum.txt"},
		{"北京企业注册.docx", "北京企业注册_sum.txt"},
		{"notes.txt", "notes.txt_sum.txt"},
		{".docx", "_sum.txt"},
		{"docx", "docx_sum.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SummaryKey(tt.title, strip, "_sum.txt"), tt.title)
	}
}

func newTestSummaryLookup(store *fakeSummaries) *SummaryLookup {
	return NewSummaryLookup(store, SummaryLookupOptions{
		ScoreThreshold: 50,
		StripSuffixes:  []string{".docx"},
		Suffix:         "_sum.txt",
	}, nil)
}

func TestSummaryLookup(t *testing.T) {
	store := &fakeSummaries{texts: map[string]string{"Report_sum.txt": "  原文摘要\n"}}
	l := newTestSummaryLookup(store)

	text, ok := l.Lookup(&domain.Hit{Path: "/d/Report.docx", Title: "Report.docx", Score: 80})
	require.True(t, ok)
	assert.Equal(t, "  原文摘要\n", text)
	assert.Equal(t, []string{"Report_sum.txt"}, store.keys)
}

func TestSummaryLookup_NoSummary(t *testing.T) {
	store := &fakeSummaries{texts: map[string]string{"Report_sum.txt": "x"}}
	l := newTestSummaryLookup(store)

	_, ok := l.Lookup(nil)
	assert.False(t, ok)

	_, ok = l.Lookup(&domain.Hit{Title: "Report.docx", Score: 49.99})
	assert.False(t, ok)
	assert.Empty(t, store.keys, "below-threshold hits are not looked up")

	_, ok = l.Lookup(&domain.Hit{Title: "Other.docx", Score: 50})
	assert.False(t, ok)
}

func TestSummaryLookup_FailureIsAbsent(t *testing.T) {
	store := &fakeSummaries{err: domain.ErrSummaryLookup}
	l := newTestSummaryLookup(store)

	text, ok := l.Lookup(&domain.Hit{Title: "Report.docx", Score: 90})
	assert.False(t, ok)
	assert.Empty(t, text)
}
