package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

const (
	regDoc = "北京 企业 注册 流程 分为 三步 核名 提交 领照 。" +
		"注册 需要 准备 营业 执照 申请 材料 和 章程 。"
	taxDoc = "上海 企业 税务 登记 流程 在 领取 执照 后 三十 日内 完成 。"
)

type retrieveFixture struct {
	index     *fakeIndex
	summaries *fakeSummaries
	uc        *RetrieveUseCase
}

func newRetrieveFixture(titleHits, contentHits []domain.Hit) *retrieveFixture {
	index := &fakeIndex{hits: map[string][]domain.Hit{
		domain.FieldTitle:   titleHits,
		domain.FieldContent: contentHits,
	}}
	summaries := &fakeSummaries{texts: map[string]string{"北京企业注册_sum.txt": "北京企业注册摘要"}}
	seg := wordSegmenter{tags: placeTags}

	uc := NewRetrieveUseCase(
		newTestTitleMatcher(index, placeTags, 50),
		newTestSummaryLookup(summaries),
		NewContentMatcher(index, seg, nil),
		NewParagraphRanker(seg, 10),
		nil,
	)
	return &retrieveFixture{index: index, summaries: summaries, uc: uc}
}

func assertNoDuplicatePaths(t *testing.T, r domain.SearchResult) {
	t.Helper()
	titles := make(map[string]bool)
	for _, ts := range r.TitleSummaries {
		titles[ts.TitleInfo.Path] = true
	}
	for _, m := range r.ContentMatches {
		assert.False(t, titles[m.Path], "path %s in both title and content matches", m.Path)
	}
}

func TestRetrieve_KeywordOnlyQuestion(t *testing.T) {
	// No title scores 50; two content hits for three requested.
	f := newRetrieveFixture(
		[]domain.Hit{{Path: "/d/企业注册须知.docx", Title: "企业注册须知.docx", Score: 12}},
		[]domain.Hit{
			{Path: "/d/北京企业注册.docx", Title: "北京企业注册.docx", Content: regDoc, Score: 9},
			{Path: "/d/上海税务登记.docx", Title: "上海税务登记.docx", Content: taxDoc, Score: 4},
		},
	)

	r, err := f.uc.Retrieve("企业 注册 流程", 3, 3)
	require.NoError(t, err)

	assert.Empty(t, r.TitleSummaries)
	require.Len(t, r.ContentMatches, 2)
	assert.Equal(t, "/d/北京企业注册.docx", r.ContentMatches[0].Path)
	assert.Equal(t, "北京 企业 注册 流程 分为 三步 核名 提交 领照", r.ContentMatches[0].Content)
	assert.Equal(t, "/d/上海税务登记.docx", r.ContentMatches[1].Path)
	assert.Equal(t, "", r.ContentMatches[1].Content, "no paragraph reaches the threshold")

	require.Len(t, f.index.calls, 2)
	assert.Equal(t, TitleResultLimit, f.index.calls[0].limit)
	assert.Equal(t, 3, f.index.calls[1].limit)
}

func TestRetrieve_TitleHitExcludedFromContent(t *testing.T) {
	titleHit := domain.Hit{Path: "/d/北京企业注册.docx", Title: "北京企业注册.docx", Score: 80}
	f := newRetrieveFixture(
		[]domain.Hit{titleHit},
		[]domain.Hit{
			{Path: "/d/北京企业注册.docx", Title: "北京企业注册.docx", Content: regDoc, Score: 9},
			{Path: "/d/上海税务登记.docx", Title: "上海税务登记.docx", Content: taxDoc, Score: 4},
			{Path: "/d/北京社保.docx", Title: "北京社保.docx", Content: regDoc, Score: 2},
		},
	)

	r, err := f.uc.Retrieve("北京 企业 注册 流程", 3, 3)
	require.NoError(t, err)

	require.Len(t, r.TitleSummaries, 1)
	assert.Equal(t, titleHit, r.TitleSummaries[0].TitleInfo)
	assert.True(t, r.TitleSummaries[0].HasSummary)
	assert.Equal(t, "北京企业注册摘要", r.TitleSummaries[0].Summary)

	require.Len(t, r.ContentMatches, 2)
	assert.Equal(t, "/d/上海税务登记.docx", r.ContentMatches[0].Path)
	assert.Equal(t, "/d/北京社保.docx", r.ContentMatches[1].Path)
	assertNoDuplicatePaths(t, r)
}

func TestRetrieve_TitleHitWithoutSummaryIsKept(t *testing.T) {
	f := newRetrieveFixture(
		[]domain.Hit{{Path: "/d/北京社保.docx", Title: "北京社保.docx", Score: 60}},
		[]domain.Hit{{Path: "/d/北京社保.docx", Title: "北京社保.docx", Content: regDoc, Score: 2}},
	)

	r, err := f.uc.Retrieve("北京 社保", 3, 3)
	require.NoError(t, err)

	require.Len(t, r.TitleSummaries, 1)
	assert.False(t, r.TitleSummaries[0].HasSummary)
	assert.Empty(t, r.ContentMatches)
	assertNoDuplicatePaths(t, r)
}

func TestRetrieve_TitleLimitIsFixed(t *testing.T) {
	f := newRetrieveFixture(
		[]domain.Hit{
			{Path: "/a.docx", Title: "a.docx", Score: 90},
			{Path: "/b.docx", Title: "b.docx", Score: 85},
		},
		[]domain.Hit{{Path: "/b.docx", Title: "b.docx", Content: regDoc, Score: 5}},
	)

	r, err := f.uc.Retrieve("北京 企业", 10, 3)
	require.NoError(t, err)
	require.Len(t, r.TitleSummaries, 1)
	assert.Equal(t, "/a.docx", r.TitleSummaries[0].TitleInfo.Path)
	require.Len(t, r.ContentMatches, 1, "only returned title hits are deduplicated")
	assert.Equal(t, "/b.docx", r.ContentMatches[0].Path)
}

func TestRetrieve_Errors(t *testing.T) {
	f := newRetrieveFixture(nil, nil)
	_, err := f.uc.Retrieve("   ", 3, 3)
	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)

	f = newRetrieveFixture(nil, nil)
	f.index.errs = map[string]error{domain.FieldTitle: domain.ErrIndexUnavailable}
	_, err = f.uc.Retrieve("北京 企业", 3, 3)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	assert.Len(t, f.index.calls, 1, "content search is not attempted")

	f = newRetrieveFixture([]domain.Hit{{Path: "/a.docx", Title: "a.docx", Score: 90}}, nil)
	f.index.errs = map[string]error{domain.FieldContent: domain.ErrIndexUnavailable}
	r, err := f.uc.Retrieve("北京 企业", 3, 3)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	assert.Empty(t, r.TitleSummaries, "no partial result")
}
