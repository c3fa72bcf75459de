package notion

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jcorbin/mdnotion/scandown"
)

// MaxTextLength is the most characters the API accepts in one rich text
// object; longer text is split over several.
const MaxTextLength = 2000

// ErrUnsupportedBlock is returned when encoding a block type with no wire form.
var ErrUnsupportedBlock = errors.New("unsupported block type")

// Block is the wire form of a block object.
type Block struct {
	Object      string `json:"object,omitempty"`
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children,omitempty"`

	Heading1         *TextBlock       `json:"heading_1,omitempty"`
	Heading2         *TextBlock       `json:"heading_2,omitempty"`
	Heading3         *TextBlock       `json:"heading_3,omitempty"`
	Paragraph        *TextBlock       `json:"paragraph,omitempty"`
	BulletedListItem *TextBlock       `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock       `json:"numbered_list_item,omitempty"`
	Quote            *TextBlock       `json:"quote,omitempty"`
	Code             *CodeContent     `json:"code,omitempty"`
	Table            *TableContent    `json:"table,omitempty"`
	TableRow         *TableRowContent `json:"table_row,omitempty"`
	Image            *ImageContent    `json:"image,omitempty"`
	Divider          *struct{}        `json:"divider,omitempty"`
	Equation         *Expression      `json:"equation,omitempty"`
}

// TextBlock is the content of every block type that is mostly rich text.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Children []Block    `json:"children,omitempty"`
}

type CodeContent struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

type TableContent struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children,omitempty"`
}

type TableRowContent struct {
	Cells [][]RichText `json:"cells"`
}

type ImageContent struct {
	Type     string       `json:"type"`
	External *ExternalURL `json:"external,omitempty"`
	Caption  []RichText   `json:"caption,omitempty"`
}

type ExternalURL struct {
	URL string `json:"url"`
}

// RichText is one rich text object, either "text" or "equation".
type RichText struct {
	Type        string       `json:"type"`
	Text        *TextContent `json:"text,omitempty"`
	Equation    *Expression  `json:"equation,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type TextContent struct {
	Content string       `json:"content"`
	Link    *ExternalURL `json:"link,omitempty"`
}

type Expression struct {
	Expression string `json:"expression"`
}

type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// HighlightColor is the annotation color given to highlighted text.
const HighlightColor = "yellow_background"

// EncodeTree encodes blocks along with all of their children, nested the way
// the API accepts them when creating a page body in one request.
func EncodeTree(blocks []scandown.Block) ([]Block, error) {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		wb, err := EncodeBlock(b)
		if err != nil {
			return nil, err
		}
		if kids := scandown.Children(b); len(kids) > 0 {
			children, err := EncodeTree(kids)
			if err != nil {
				return nil, err
			}
			if tb := wb.textBlock(); tb != nil {
				tb.Children = children
			}
		}
		out = append(out, wb)
	}
	return out, nil
}

// EncodeBlock encodes a single block, without any of its children; tables
// are the exception, carrying their rows.
func EncodeBlock(b scandown.Block) (Block, error) {
	wb := Block{Object: "block"}
	switch b := b.(type) {
	case scandown.Heading:
		tb := &TextBlock{RichText: EncodeSpans(b.Text)}
		switch {
		case b.Level <= 1:
			wb.Type, wb.Heading1 = "heading_1", tb
		case b.Level == 2:
			wb.Type, wb.Heading2 = "heading_2", tb
		default:
			wb.Type, wb.Heading3 = "heading_3", tb
		}

	case scandown.Paragraph:
		wb.Type, wb.Paragraph = "paragraph", &TextBlock{RichText: EncodeSpans(b.Text)}

	case scandown.BulletItem:
		wb.Type, wb.BulletedListItem = "bulleted_list_item", &TextBlock{RichText: EncodeSpans(b.Text)}

	case scandown.NumberedItem:
		wb.Type, wb.NumberedListItem = "numbered_list_item", &TextBlock{RichText: EncodeSpans(b.Text)}

	case scandown.Quote:
		wb.Type, wb.Quote = "quote", &TextBlock{RichText: EncodeSpans(b.Text)}

	case scandown.CodeBlock:
		wb.Type = "code"
		wb.Code = &CodeContent{
			RichText: plainText(strings.TrimSuffix(b.Code, "\n")),
			Language: CodeLanguage(b.Language),
		}

	case scandown.Table:
		width := b.Width()
		if width < 1 {
			width = 1
		}
		table := &TableContent{
			TableWidth:      width,
			HasColumnHeader: b.Header != nil,
		}
		if b.Header != nil {
			table.Children = append(table.Children, tableRow(b.Header, width))
		}
		for _, row := range b.Rows {
			table.Children = append(table.Children, tableRow(row, width))
		}
		wb.Type, wb.Table = "table", table

	case scandown.Image:
		if !absoluteURL(b.URL) {
			text := b.URL
			if b.Caption != "" {
				text = fmt.Sprintf("%v (%v)", b.Caption, b.URL)
			}
			wb.Type, wb.Paragraph = "paragraph", &TextBlock{RichText: plainText(text)}
			break
		}
		wb.Type = "image"
		wb.Image = &ImageContent{
			Type:     "external",
			External: &ExternalURL{URL: b.URL},
		}
		if b.Caption != "" {
			wb.Image.Caption = plainText(b.Caption)
		}

	case scandown.Divider:
		wb.Type, wb.Divider = "divider", &struct{}{}

	case scandown.Equation:
		wb.Type, wb.Equation = "equation", &Expression{Expression: b.Expression}

	default:
		return wb, fmt.Errorf("%w: %T", ErrUnsupportedBlock, b)
	}
	return wb, nil
}

func tableRow(row scandown.Row, width int) Block {
	cells := make([][]RichText, width)
	for i := range cells {
		if i < len(row) {
			cells[i] = EncodeSpans(row[i])
		} else {
			cells[i] = []RichText{}
		}
	}
	return Block{Object: "block", Type: "table_row", TableRow: &TableRowContent{Cells: cells}}
}

func (b *Block) textBlock() *TextBlock {
	switch b.Type {
	case "paragraph":
		return b.Paragraph
	case "bulleted_list_item":
		return b.BulletedListItem
	case "numbered_list_item":
		return b.NumberedListItem
	case "quote":
		return b.Quote
	}
	return nil
}

// EncodeSpans converts spans to rich text objects. It never returns nil.
//
// Superscript and subscript have no annotation, so they are sent as plain
// text; links are kept only when absolute.
func EncodeSpans(spans []scandown.Span) []RichText {
	out := make([]RichText, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if span.Math {
			out = append(out, RichText{Type: "equation", Equation: &Expression{Expression: span.Text}})
			continue
		}
		var ann *Annotations
		if a := (Annotations{
			Bold:          span.Bold,
			Italic:        span.Italic,
			Strikethrough: span.Strikethrough,
			Code:          span.Code,
		}); span.Highlight || a != (Annotations{}) {
			if span.Highlight {
				a.Color = HighlightColor
			}
			ann = &a
		}
		var link *ExternalURL
		if span.Link != "" && absoluteURL(span.Link) {
			link = &ExternalURL{URL: span.Link}
		}
		for _, chunk := range splitText(span.Text, MaxTextLength) {
			out = append(out, RichText{
				Type:        "text",
				Text:        &TextContent{Content: chunk, Link: link},
				Annotations: ann,
			})
		}
	}
	return out
}

func plainText(s string) []RichText {
	out := []RichText{}
	for _, chunk := range splitText(s, MaxTextLength) {
		out = append(out, RichText{Type: "text", Text: &TextContent{Content: chunk}})
	}
	return out
}

// splitText cuts s into pieces of at most max runes each.
func splitText(s string, max int) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for utf8.RuneCountInString(s) > max {
		i, n := 0, 0
		for n < max {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			n++
		}
		parts = append(parts, s[:i])
		s = s[i:]
	}
	return append(parts, s)
}

func absoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Scheme == "mailto")
}
