package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs(t *testing.T) {
	text := "第一句足够长的内容在这里呢呢呢。  短句！第三句也是足够长的内容在这里？\n尾巴没有标点但足够长的一段话在这"
	got := SplitParagraphs(text, 10)
	assert.Equal(t, []string{
		"第一句足够长的内容在这里呢呢呢",
		"第三句也是足够长的内容在这里",
		"尾巴没有标点但足够长的一段话在这",
	}, got)
}

func TestSplitParagraphs_ASCII(t *testing.T) {
	got := SplitParagraphs("Rate is 3.5 percent now. Is it? Yes!", 1)
	assert.Equal(t, []string{"Rate is 3.5 percent now", "Is it", "Yes"}, got)
}

func TestSplitParagraphs_MinLengthCountsCharacters(t *testing.T) {
	// 10 runes, 30 bytes.
	p := strings.Repeat("字", 10)
	assert.Equal(t, []string{p}, SplitParagraphs(p+"。", 10))
	assert.Empty(t, SplitParagraphs(p+"。", 11))
}

// Paragraphs are space-separated words so the fake segmenter can read them.
const rankerDoc = "北京 企业 注册 需要 先 核名 再 提交 申请 材料 。" +
	"上海 的 税务 登记 流程 比较 简单 办理 时间 很 短 。" +
	"北京 企业 注册 流程 分为 三步 核名 提交 领照 。" +
	"短 。" +
	"企业 年报 需要 每年 按时 提交 否则 会 被 处罚 。"

func newTestRanker() *ParagraphRanker {
	return NewParagraphRanker(wordSegmenter{}, 20)
}

func TestParagraphRanker_Rank(t *testing.T) {
	ranked := newTestRanker().Rank(rankerDoc, "北京 企业 注册 流程")
	require.Len(t, ranked, 4)

	assert.Equal(t, 4, ranked[0].OverlapScore)
	assert.True(t, strings.HasPrefix(ranked[0].Text, "北京 企业 注册 流程"))
	assert.Equal(t, 3, ranked[1].OverlapScore)
	assert.True(t, strings.HasPrefix(ranked[1].Text, "北京 企业 注册 需要"))
	// 上海 paragraph and 年报 paragraph tie; document order wins.
	assert.Equal(t, 1, ranked[2].OverlapScore)
	assert.True(t, strings.HasPrefix(ranked[2].Text, "上海"))
	assert.Equal(t, 1, ranked[3].OverlapScore)
	assert.True(t, strings.HasPrefix(ranked[3].Text, "企业 年报"))
}

func TestParagraphRanker_Select(t *testing.T) {
	r := newTestRanker()
	got := r.Select(rankerDoc, "北京 企业 注册 流程", 3)
	assert.Equal(t,
		"北京 企业 注册 流程 分为 三步 核名 提交 领照"+ParagraphSeparator+
			"北京 企业 注册 需要 先 核名 再 提交 申请 材料",
		got)
}

func TestParagraphRanker_DuplicateTokensCountOnce(t *testing.T) {
	r := NewParagraphRanker(wordSegmenter{}, 1)
	ranked := r.Rank("企业 企业 企业 注册 。", "企业 企业")
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].OverlapScore)
}

func TestParagraphRanker_Invariants(t *testing.T) {
	r := newTestRanker()
	questions := []string{"北京 企业 注册 流程", "企业 提交", "上海 税务", "无关 问题"}
	for _, q := range questions {
		for threshold := 0; threshold <= 4; threshold++ {
			first := r.Select(rankerDoc, q, threshold)
			assert.Equal(t, first, r.Select(rankerDoc, q, threshold), "deterministic")
			if first == "" {
				continue
			}
			for _, p := range strings.Split(first, ParagraphSeparator) {
				assert.GreaterOrEqual(t, utf8.RuneCountInString(p), 20)
				score := overlap(tokenSetOf(p), tokenSetOf(q))
				assert.GreaterOrEqual(t, score, threshold)
			}
		}
	}
}

func tokenSetOf(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range (wordSegmenter{}).Segment(text) {
		set[w] = struct{}{}
	}
	return set
}

func TestParagraphRanker_NothingQualifies(t *testing.T) {
	r := newTestRanker()
	assert.Equal(t, "", r.Select("", "北京", 0))
	assert.Equal(t, "", r.Select("短 。 也 短 。", "短", 0))
	assert.Equal(t, "", r.Select(rankerDoc, "完全 无关 的 问题", 3))
}
