package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func match(title, content string) domain.ContentMatch {
	return domain.ContentMatch{Path: "/d/" + title, Title: title, Content: content}
}

func TestAssemble(t *testing.T) {
	result := domain.SearchResult{
		TitleSummaries: []domain.TitleSummary{{
			TitleInfo:  domain.Hit{Path: "/d/t.docx", Title: "t.docx", Score: 80},
			Summary:    "摘要",
			HasSummary: true,
		}},
		ContentMatches: []domain.ContentMatch{
			match("a.docx", "甲乙丙"),
			match("b.docx", "丁戊"),
		},
	}

	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("问题", result, 100)
	require.NoError(t, err)

	assert.Equal(t, "问题", c.Question)
	assert.Equal(t, "t.docx\n", c.TitleRelated)
	assert.Equal(t, "摘要\n\n", c.TitleSummaryText)
	assert.Equal(t,
		"内容相关文档：\na.docx\n甲乙丙\n\n"+
			"内容相关文档：\nb.docx\n丁戊\n\n",
		c.Body)
	assert.Equal(t, "a.docx；b.docx", c.ContentRelatedTitles)
	assert.Equal(t, []string{"/d/a.docx", "/d/b.docx"}, c.IncludedPaths)
	assert.Equal(t, 5, c.UsedTokens)
	assert.Equal(t, 100, c.BudgetTokens)
}

func TestAssemble_StopsAtFirstBlockOverBudget(t *testing.T) {
	result := domain.SearchResult{ContentMatches: []domain.ContentMatch{
		match("a.docx", strings.Repeat("字", 6)),
		match("b.docx", strings.Repeat("字", 5)),
		match("c.docx", "字"),
	}}

	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("q", result, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"/d/a.docx"}, c.IncludedPaths, "c.docx fits but comes after the first overflow")
	assert.Equal(t, "a.docx", c.ContentRelatedTitles)
	assert.Equal(t, 6, c.UsedTokens)
	assert.LessOrEqual(t, c.UsedTokens, c.BudgetTokens)
}

func TestAssemble_ExactBudgetFits(t *testing.T) {
	result := domain.SearchResult{ContentMatches: []domain.ContentMatch{
		match("a.docx", "甲乙"),
		match("b.docx", "丙"),
	}}

	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("q", result, 3)
	require.NoError(t, err)
	assert.Len(t, c.IncludedPaths, 2)
	assert.Equal(t, 3, c.UsedTokens)
}

func TestAssemble_TitleSummariesAreNotBudgeted(t *testing.T) {
	result := domain.SearchResult{
		TitleSummaries: []domain.TitleSummary{
			{TitleInfo: domain.Hit{Title: "t.docx"}, Summary: strings.Repeat("长", 1000), HasSummary: true},
		},
		ContentMatches: []domain.ContentMatch{match("a.docx", "甲")},
	}

	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("q", result, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedTokens)
	assert.Len(t, c.TitleSummaryText, len(strings.Repeat("长", 1000)+"\n\n"))
}

func TestAssemble_AbsentSummaryContributesNothing(t *testing.T) {
	result := domain.SearchResult{
		TitleSummaries: []domain.TitleSummary{{TitleInfo: domain.Hit{Title: "t.docx", Score: 60}}},
		ContentMatches: []domain.ContentMatch{match("a.docx", "甲")},
	}

	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("q", result, 10)
	require.NoError(t, err)
	assert.Equal(t, "t.docx\n", c.TitleRelated)
	assert.Equal(t, "", c.TitleSummaryText)
}

func TestAssemble_NoRelevantContent(t *testing.T) {
	uc := NewPackUseCase(runeCounter{}, nil)

	// Nothing fits a zero budget.
	c, err := uc.Assemble("q", domain.SearchResult{ContentMatches: []domain.ContentMatch{match("a.docx", "甲")}}, 0)
	assert.ErrorIs(t, err, domain.ErrNoRelevantContent)
	assert.Empty(t, c.Body)
	assert.Empty(t, c.IncludedPaths)
	assert.Empty(t, c.ContentRelatedTitles)

	// No content matches at all, title data is still reported.
	c, err = uc.Assemble("q", domain.SearchResult{
		TitleSummaries: []domain.TitleSummary{{TitleInfo: domain.Hit{Title: "t.docx"}, Summary: "摘要", HasSummary: true}},
	}, 100)
	assert.ErrorIs(t, err, domain.ErrNoRelevantContent)
	assert.Equal(t, "t.docx\n", c.TitleRelated)
	assert.Equal(t, "摘要\n\n", c.TitleSummaryText)
}

func TestAssemble_EmptyParagraphSelectionStillLabelled(t *testing.T) {
	c, err := NewPackUseCase(runeCounter{}, nil).Assemble("q",
		domain.SearchResult{ContentMatches: []domain.ContentMatch{match("a.docx", "")}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "内容相关文档：\na.docx\n\n\n", c.Body)
	assert.Equal(t, 0, c.UsedTokens)
}
