package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"term", Term("title", "北京"), "title:北京"},
		{"default field", Term("", "注册"), "注册"},
		{"or", Or(Terms("content", []string{"企业", "注册"})...), "content:企业 OR content:注册"},
		{
			"places and keywords",
			And(Term("title", "北京"), Term("title", "上海"), Or(Terms("title", []string{"企业", "注册"})...)),
			"title:北京 AND title:上海 AND (title:企业 OR title:注册)",
		},
		{"quoted operator", Term("title", "AND"), `title:"AND"`},
		{"quoted special", Term("title", `a "b":(c)`), `title:"a \"b\":(c)"`},
		{"quoted full-width space", Term("", "北京　上海"), "\"北京　上海\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestAndOrSimplify(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, Or(nil, nil))
	assert.Equal(t, Term("title", "x"), And(nil, Term("title", "x")))

	nested := And(Term("", "a"), And(Term("", "b"), Term("", "c")))
	require.IsType(t, AndNode{}, nested)
	assert.Len(t, nested.(AndNode).Clauses, 3)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Node
	}{
		{"企业", Term("", "企业")},
		{"content:企业 OR content:注册", Or(Term("content", "企业"), Term("content", "注册"))},
		{"a b", And(Term("", "a"), Term("", "b"))},
		{"a AND b OR c", Or(And(Term("", "a"), Term("", "b")), Term("", "c"))},
		{
			"title:北京 AND title:(企业 OR 注册)",
			And(Term("title", "北京"), Or(Term("title", "企业"), Term("title", "注册"))),
		},
		{"title:(a content:b)", And(Term("title", "a"), Term("content", "b"))},
		{`"AND" OR "x\"y"`, Or(Term("", "AND"), Term("", `x"y`))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "(a OR b", "a OR", "AND a", `"open`, "title:", ":a", "a)"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}

	_, err := Parse("  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestParse_InvertsString(t *testing.T) {
	nodes := []Node{
		And(Term("title", "北京"), Or(Terms("title", []string{"企业", "注册", "流程"})...)),
		Or(Terms("content", []string{"what", "OR", "a:b", `back\slash`})...),
		Or(And(Term("", "a"), Term("", "b")), Term("content", "c d")),
	}
	for _, n := range nodes {
		got, err := Parse(n.String())
		require.NoError(t, err, n.String())
		assert.Equal(t, n, got)
	}
}
