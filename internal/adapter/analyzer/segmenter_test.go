package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	seg, err := NewSegmenter(SegmenterOptions{DictFiles: []string{"testdata/dict.txt"}})
	require.NoError(t, err)
	return seg
}

func TestSegmenter_Segment(t *testing.T) {
	seg := newTestSegmenter(t)

	tokens := seg.Segment("北京企业注册流程")
	for _, want := range []string{"北京", "企业", "注册", "流程"} {
		assert.Contains(t, tokens, want)
	}
}

func TestSegmenter_SegmentDropsPunctuation(t *testing.T) {
	seg := newTestSegmenter(t)

	for _, tok := range seg.Segment("企业，注册？") {
		assert.NotContains(t, []string{"，", "？", " "}, tok)
	}
	assert.Empty(t, seg.Segment(""))
}

func TestSegmenter_Deterministic(t *testing.T) {
	seg := newTestSegmenter(t)

	first := seg.Segment("上海企业注册流程")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, seg.Segment("上海企业注册流程"))
	}
}

func TestSegmenter_TagPlaceNames(t *testing.T) {
	seg := newTestSegmenter(t)

	tagged := seg.Tag("北京企业注册")
	assert.Contains(t, tagged, domain.TaggedWord{Word: "北京", Tag: "ns"})
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Hello", "hello", true},
		{"  北京 ", "北京", true},
		{"，", "", false},
		{" ", "", false},
		{"v2.0", "v2.0", true},
	}
	for _, tt := range tests {
		got, ok := normalizeToken(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTokenSet(t *testing.T) {
	set := TokenSet([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
}
