package scandown

import (
	"fmt"
	"io"
	"strings"
)

// Format writes a textual representation of the receiver, providing improved
// fmt.Printf display. Produces a multi-line outline, one block per line, when
// formatted with `%+v", a terse list of top-level block types otherwise.
func (doc Document) Format(f fmt.State, _ rune) {
	if len(doc.Blocks) == 0 {
		io.WriteString(f, "-- empty --")
		return
	}
	if f.Flag('+') {
		first := true
		doc.Walk(func(b Block, depth int) bool {
			if !first {
				io.WriteString(f, "\n")
			}
			first = false
			io.WriteString(f, strings.Repeat("  ", depth))
			fmt.Fprintf(f, "%+v", b)
			return true
		})
		return
	}
	for i, b := range doc.Blocks {
		if i > 0 {
			io.WriteString(f, " ")
		}
		fmt.Fprintf(f, "%v", b)
	}
}

// Format writes a textual representation of the receiver. Produces the
// quoted text followed by any formatting attributes when formatted with
// `%+v", just the quoted text otherwise.
func (s Span) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "%q", s.Text)
	if !f.Flag('+') {
		return
	}
	for _, attr := range []struct {
		on   bool
		name string
	}{
		{s.Bold, "bold"},
		{s.Italic, "italic"},
		{s.Strikethrough, "strike"},
		{s.Code, "code"},
		{s.Highlight, "highlight"},
		{s.Math, "math"},
		{s.Superscript, "sup"},
		{s.Subscript, "sub"},
	} {
		if attr.on {
			io.WriteString(f, " ")
			io.WriteString(f, attr.name)
		}
	}
	if s.Link != "" {
		fmt.Fprintf(f, " link=%q", s.Link)
	}
}

// Format writes a type string, with its level, followed by the heading text
// when formatted with `%+v".
func (h Heading) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "%v%v", h.Type(), h.Level)
	formatText(f, h.Text)
}

// Format writes "Paragraph", with its text when formatted with `%+v".
func (p Paragraph) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, p.Type())
	formatText(f, p.Text)
}

// Format writes "BulletItem", with its text when formatted with `%+v".
func (item BulletItem) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, item.Type())
	formatText(f, item.Text)
}

// Format writes "NumberedItem" and its number, with its text when formatted
// with `%+v".
func (item NumberedItem) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "%v%v", item.Type(), item.Number)
	formatText(f, item.Text)
}

// Format writes "CodeBlock", with its language and code size when formatted
// with `%+v".
func (code CodeBlock) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, code.Type())
	if f.Flag('+') {
		if code.Language != "" {
			fmt.Fprintf(f, " lang=%v", code.Language)
		}
		fmt.Fprintf(f, " code=%q", code.Code)
	}
}

// Format writes "Quote", with its text when formatted with `%+v".
func (q Quote) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, q.Type())
	formatText(f, q.Text)
}

// Format writes "Table", with its shape and cells when formatted with `%+v".
func (t Table) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, t.Type())
	if !f.Flag('+') {
		return
	}
	fmt.Fprintf(f, " width=%v rows=%v", t.Width(), len(t.Rows))
	if t.Header != nil {
		io.WriteString(f, " header=")
		formatRow(f, t.Header)
	}
	for _, row := range t.Rows {
		io.WriteString(f, " ")
		formatRow(f, row)
	}
}

// Format writes "Image", with its url and caption when formatted with `%+v".
func (img Image) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, img.Type())
	if f.Flag('+') {
		fmt.Fprintf(f, " url=%q", img.URL)
		if img.Caption != "" {
			fmt.Fprintf(f, " caption=%q", img.Caption)
		}
	}
}

// Format writes "Divider".
func (d Divider) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, d.Type())
}

// Format writes "Equation", with its expression when formatted with `%+v".
func (eq Equation) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, eq.Type())
	if f.Flag('+') {
		fmt.Fprintf(f, " expr=%q", eq.Expression)
	}
}

func formatText(f fmt.State, spans []Span) {
	if !f.Flag('+') || len(spans) == 0 {
		return
	}
	for _, span := range spans {
		io.WriteString(f, " ")
		if span.Plain() {
			fmt.Fprintf(f, "%v", span)
		} else {
			fmt.Fprintf(f, "(%+v)", span)
		}
	}
}

func formatRow(f fmt.State, row Row) {
	io.WriteString(f, "[")
	for i, cell := range row {
		if i > 0 {
			io.WriteString(f, "|")
		}
		fmt.Fprintf(f, "%q", PlainText(cell))
	}
	io.WriteString(f, "]")
}

// Format writes a type string representing the receiver code.
func (t BlockType) Format(f fmt.State, _ rune) {
	switch t {
	case noBlock:
		io.WriteString(f, "None")
	case HeadingBlock:
		io.WriteString(f, "Heading")
	case ParagraphBlock:
		io.WriteString(f, "Paragraph")
	case BulletItemBlock:
		io.WriteString(f, "BulletItem")
	case NumberedItemBlock:
		io.WriteString(f, "NumberedItem")
	case CodeBlockBlock:
		io.WriteString(f, "CodeBlock")
	case QuoteBlock:
		io.WriteString(f, "Quote")
	case TableBlock:
		io.WriteString(f, "Table")
	case ImageBlock:
		io.WriteString(f, "Image")
	case DividerBlock:
		io.WriteString(f, "Divider")
	case EquationBlock:
		io.WriteString(f, "Equation")
	default:
		fmt.Fprintf(f, "InvalidBlock%v", int(t))
	}
}

// Format writes a name for the line kind.
func (k LineKind) Format(f fmt.State, _ rune) {
	switch k {
	case BlankLine:
		io.WriteString(f, "Blank")
	case TextLine:
		io.WriteString(f, "Text")
	case HeadingLine:
		io.WriteString(f, "Heading")
	case ListItemLine:
		io.WriteString(f, "ListItem")
	case FenceOpenLine:
		io.WriteString(f, "FenceOpen")
	case FenceCloseLine:
		io.WriteString(f, "FenceClose")
	case FenceContentLine:
		io.WriteString(f, "FenceContent")
	case MathOpenLine:
		io.WriteString(f, "MathOpen")
	case EquationLine:
		io.WriteString(f, "Equation")
	case QuoteLine:
		io.WriteString(f, "Quote")
	case RuleLine:
		io.WriteString(f, "Rule")
	case TableRowLine:
		io.WriteString(f, "TableRow")
	case ImageLine:
		io.WriteString(f, "Image")
	default:
		fmt.Fprintf(f, "InvalidLine%v", int(k))
	}
}
