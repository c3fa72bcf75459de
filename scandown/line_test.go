package scandown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	codeFence := Line{Kind: FenceOpenLine, Delim: '`', Width: 3, Indent: 2}

	for _, tc := range []struct {
		name string
		in   string
		ctx  LineContext
		out  Line
	}{
		{name: "empty", in: "", out: Line{Kind: BlankLine}},
		{name: "whitespace", in: "  \t", out: Line{Kind: BlankLine, Indent: 6}},
		{name: "crlf", in: "text\r\n", out: Line{Kind: TextLine, Text: "text"}},

		{name: "heading", in: "# Title #", out: Line{Kind: HeadingLine, Level: 1, Text: "Title"}},
		{name: "heading 6", in: "###### six", out: Line{Kind: HeadingLine, Level: 6, Text: "six"}},
		{name: "heading 7 is text", in: "####### seven", out: Line{Kind: TextLine, Text: "####### seven"}},
		{name: "hashtag is text", in: "#hashtag", out: Line{Kind: TextLine, Text: "#hashtag"}},
		{name: "indented heading", in: "   ## three", out: Line{Kind: HeadingLine, Indent: 3, Level: 2, Text: "three"}},
		{name: "deeply indented heading is text", in: "    # four", out: Line{Kind: TextLine, Indent: 4, Text: "# four"}},
		{name: "heading keeps inner hash", in: "## C# notes", out: Line{Kind: HeadingLine, Level: 2, Text: "C# notes"}},

		{name: "bullet", in: "  - item", out: Line{Kind: ListItemLine, Indent: 2, Delim: '-', Text: "item"}},
		{name: "tab bullet", in: "\t* item", out: Line{Kind: ListItemLine, Indent: 4, Delim: '*', Text: "item"}},
		{name: "empty bullet", in: "+", out: Line{Kind: ListItemLine, Delim: '+'}},
		{name: "ordinal", in: "12. twelve", out: Line{Kind: ListItemLine, Delim: '.', Number: 12, Text: "twelve"}},
		{name: "paren ordinal", in: "3) three", out: Line{Kind: ListItemLine, Delim: ')', Number: 3, Text: "three"}},
		{name: "not an ordinal", in: "3.14 is pi", out: Line{Kind: TextLine, Text: "3.14 is pi"}},
		{name: "bullet with pipes", in: "- a | b", out: Line{Kind: ListItemLine, Delim: '-', Text: "a | b"}},

		{name: "fence", in: "```python", out: Line{Kind: FenceOpenLine, Delim: '`', Width: 3, Info: "python"}},
		{name: "tilde fence", in: "~~~~ go extra", out: Line{Kind: FenceOpenLine, Delim: '~', Width: 4, Info: "go"}},
		{name: "inline code is not a fence", in: "```a```", out: Line{Kind: TextLine, Text: "```a```"}},
		{name: "math open", in: "$$", out: Line{Kind: MathOpenLine, Delim: '$', Width: 2}},
		{name: "equation", in: "$$ x^2 $$", out: Line{Kind: EquationLine, Text: "x^2"}},

		{name: "quote", in: "> quoted", out: Line{Kind: QuoteLine, Level: 1, Text: "quoted"}},
		{name: "nested quote", in: "> > nested", out: Line{Kind: QuoteLine, Level: 2, Text: "nested"}},
		{name: "empty quote", in: ">", out: Line{Kind: QuoteLine, Level: 1}},

		{name: "dash rule", in: "---", out: Line{Kind: RuleLine, Delim: '-'}},
		{name: "star rule", in: "* * *", out: Line{Kind: RuleLine, Delim: '*'}},
		{name: "underscore rule", in: "___", out: Line{Kind: RuleLine, Delim: '_'}},
		{name: "short rule", in: "--", out: Line{Kind: TextLine, Text: "--"}},

		{name: "table row", in: "| a | b |", out: Line{Kind: TableRowLine, Cells: []string{"a", "b"}}},
		{name: "bare table row", in: "a | b", out: Line{Kind: TableRowLine, Cells: []string{"a", "b"}}},
		{name: "separator", in: "|---|:---:|", out: Line{Kind: TableRowLine, Sep: true, Cells: []string{"---", ":---:"}}},
		{name: "escaped pipe", in: `a \| b`, out: Line{Kind: TextLine, Text: `a \| b`}},
		{name: "escaped cell pipe", in: `| a \| b | c |`, out: Line{Kind: TableRowLine, Cells: []string{`a \| b`, "c"}}},
		{name: "separator after header", in: "---", ctx: LineContext{TableRows: 1},
			out: Line{Kind: TableRowLine, Sep: true, Cells: []string{"---"}}},
		{name: "rule after table rows", in: "---", ctx: LineContext{TableRows: 2},
			out: Line{Kind: RuleLine, Delim: '-'}},

		{name: "image", in: "![cat](https://c.at/x.png)",
			out: Line{Kind: ImageLine, Text: "cat", Info: "https://c.at/x.png"}},
		{name: "titled image", in: `![cat](https://c.at/x.png "A cat")`,
			out: Line{Kind: ImageLine, Text: "cat", Info: "https://c.at/x.png"}},
		{name: "image in text", in: "![cat](https://c.at/x.png) trailing",
			out: Line{Kind: TextLine, Text: "![cat](https://c.at/x.png) trailing"}},

		{name: "fence close", in: "  ```", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceCloseLine, Delim: '`', Indent: 2}},
		{name: "longer fence close", in: "````", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceCloseLine, Delim: '`'}},
		{name: "short fence is content", in: "  ``", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceContentLine, Indent: 2, Text: "``"}},
		{name: "other fence is content", in: "~~~", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceContentLine, Text: "~~~"}},
		{name: "fence content", in: "    code", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceContentLine, Indent: 4, Text: "  code"}},
		{name: "fence content markup", in: "# **not** a heading", ctx: LineContext{Fence: &codeFence},
			out: Line{Kind: FenceContentLine, Text: "# **not** a heading"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			line := Classify(tc.in, tc.ctx)
			assert.Equal(t, trimNewline(tc.in), line.Raw, "expected raw line")
			line.Raw = ""
			assert.Equal(t, tc.out, line)
		})
	}
}

func TestTrimIndent(t *testing.T) {
	for _, tc := range []struct {
		in    string
		limit int
		n     int
		tail  string
	}{
		{"    x", 2, 2, "  x"},
		{"\tx", 2, 0, "\tx"},
		{"\tx", 4, 4, "x"},
		{"  \tx", 8, 6, "x"},
		{"x", 4, 0, "x"},
	} {
		n, tail := trimIndent(tc.in, tc.limit, 4)
		assert.Equal(t, tc.n, n, "indent of %q", tc.in)
		assert.Equal(t, tc.tail, tail, "tail of %q", tc.in)
	}
}
