package scandown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpans(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		out  []Span
	}{
		{"empty", "", nil},
		{"plain", "just text", []Span{{Text: "just text"}}},
		{"bold italic single span", "***bold italic***", []Span{
			{Text: "bold italic", Bold: true, Italic: true},
		}},
		{"unclosed italic is literal", "*unclosed", []Span{{Text: "*unclosed"}}},
		{"bold in the middle", "a **b** c", []Span{
			{Text: "a "},
			{Text: "b", Bold: true},
			{Text: " c"},
		}},
		{"underscore bold", "__b__", []Span{{Text: "b", Bold: true}}},
		{"nested emphasis", "**bold *and italic* text**", []Span{
			{Text: "bold ", Bold: true},
			{Text: "and italic", Bold: true, Italic: true},
			{Text: " text", Bold: true},
		}},
		{"strikethrough", "~~gone~~", []Span{{Text: "gone", Strikethrough: true}}},
		{"highlight", "==hi==", []Span{{Text: "hi", Highlight: true}}},
		{"superscript", "x^2^", []Span{{Text: "x"}, {Text: "2", Superscript: true}}},
		{"subscript", "H~2~O", []Span{{Text: "H"}, {Text: "2", Subscript: true}, {Text: "O"}}},
		{"intraword underscores", "snake_case_name", []Span{{Text: "snake_case_name"}}},
		{"opener before space", "a * b * c", []Span{{Text: "a * b * c"}}},

		{"code span is literal", "`**x**`", []Span{{Text: "**x**", Code: true}}},
		{"double backtick code", "``code with ` tick``", []Span{{Text: "code with ` tick", Code: true}}},
		{"padded code", "`` `x` ``", []Span{{Text: "`x`", Code: true}}},
		{"unmatched backtick", "a `b", []Span{{Text: "a `b"}}},

		{"inline math", "$E=mc^2$", []Span{{Text: "E=mc^2", Math: true}}},
		{"display math inline", "see $$x_1$$ here", []Span{
			{Text: "see "},
			{Text: "x_1", Math: true},
			{Text: " here"},
		}},
		{"prices are not math", "costs $5 and $10", []Span{{Text: "costs $5 and $10"}}},

		{"link", "see [docs](https://d.io \"Title\") now", []Span{
			{Text: "see "},
			{Text: "docs", Link: "https://d.io"},
			{Text: " now"},
		}},
		{"link wraps emphasis", "[**bold link**](https://x.io)", []Span{
			{Text: "bold link", Bold: true, Link: "https://x.io"},
		}},
		{"link wraps code", "[`go`](<https://go.dev>)", []Span{
			{Text: "go", Code: true, Link: "https://go.dev"},
		}},
		{"inline image", "see ![alt](u.png)", []Span{
			{Text: "see "},
			{Text: "alt", Link: "u.png"},
		}},
		{"not a link", "[just brackets] (x)", []Span{{Text: "[just brackets] (x)"}}},
		{"math inside emphasis", "*a $x*y$ b*", []Span{
			{Text: "a ", Italic: true},
			{Text: "x*y", Math: true},
			{Text: " b", Italic: true},
		}},
		{"math inside link label", "[$a]b$](https://m.io)", []Span{
			{Text: "a]b", Math: true, Link: "https://m.io"},
		}},
		{"link inside emphasis opener", "*[a*](https://u.io)", []Span{
			{Text: "*"},
			{Text: "a*", Link: "https://u.io"},
		}},
		{"emphasis around link", "*see [a*b](https://u.io)*", []Span{
			{Text: "see ", Italic: true},
			{Text: "a*b", Italic: true, Link: "https://u.io"},
		}},
		{"empty destination", "[a]()", []Span{{Text: "[a]()"}}},

		{"escapes", `\*not italic\*`, []Span{{Text: "*not italic*"}}},
		{"escaped backslash", `a\\b`, []Span{{Text: `a\b`}}},
		{"backslash before letter", `a\b`, []Span{{Text: `a\b`}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.out, ParseSpans(tc.in))
		})
	}
}

func TestParseSpans_reconstruction(t *testing.T) {
	for _, tc := range []struct {
		in    string
		plain string
	}{
		{"no markup at all, even with 2 * 3 = 6", "no markup at all, even with 2 * 3 = 6"},
		{"a **b** _c_ ~~d~~ ==e== `f`", "a b c d e f"},
		{"[x](y) and ![z](w)", "x and z"},
		{`\[not a link\]`, "[not a link]"},
		{"*half ~~open", "*half ~~open"},
		{"Note![1] here", "Note![1] here"},
		{"Wow![not a link", "Wow![not a link"},
		{"a ![] (x) b", "a ![] (x) b"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.plain, PlainText(ParseSpans(tc.in)))
		})
	}
}

func TestParseSpans_malformed(t *testing.T) {
	for _, tc := range []struct {
		in    string
		marks []string
	}{
		{"*unclosed", []string{"*"}},
		{"a `b", []string{"`"}},
		{"~~no end", []string{"~~"}},
		{"a = b", nil},
		{"snake_case", nil},
		{"**fine**", nil},
	} {
		t.Run(tc.in, func(t *testing.T) {
			var marks []string
			sr := spanResolver{malformed: func(mark string) {
				marks = append(marks, mark)
			}}
			sr.resolve(tc.in)
			assert.Equal(t, tc.marks, marks)
		})
	}
}

func TestSpan_flags(t *testing.T) {
	for _, span := range ParseSpans("`a` $b$ [`c`](d)") {
		if span.Code || span.Math {
			assert.False(t, span.Bold || span.Italic || span.Strikethrough || span.Highlight,
				"code and math spans carry no emphasis: %+v", span)
		}
	}
	assert.True(t, Span{Text: "x"}.Plain())
	assert.False(t, Span{Text: "x", Link: "y"}.Plain())
}
