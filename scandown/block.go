package scandown

// Block is one structural unit of a parsed Document. The set of implementing
// types is closed: Heading, Paragraph, BulletItem, NumberedItem, CodeBlock,
// Quote, Table, Image, Divider, and Equation. Consumers should type switch
// over all of them, treating any other type as a programming error.
type Block interface {
	Type() BlockType
	block()
}

// BlockType is to determine the semantic meaning of a Block.
type BlockType int

// BlockType constants, one for every Block implementation.
const (
	noBlock BlockType = iota // 0 value should never be seen by user
	HeadingBlock
	ParagraphBlock
	BulletItemBlock
	NumberedItemBlock
	CodeBlockBlock
	QuoteBlock
	TableBlock
	ImageBlock
	DividerBlock
	EquationBlock
)

// Heading is an ATX heading; Level is in 1..6.
type Heading struct {
	Level int
	Text  []Span
}

// Paragraph is a run of text lines joined by single spaces.
type Paragraph struct {
	Text []Span
}

// BulletItem is an unordered list item; Children holds nested items and any
// other blocks indented under it.
type BulletItem struct {
	Text     []Span
	Children []Block
}

// NumberedItem is an ordered list item. Number is its ordinal: the first
// item of a list keeps its source number, later ones count up from there.
type NumberedItem struct {
	Number   int
	Text     []Span
	Children []Block
}

// CodeBlock is fenced code. Code is the raw content, each line keeping its
// line break; no inline formatting is ever applied to it.
type CodeBlock struct {
	Language string
	Code     string
}

// Quote is a block quote. Text is its leading paragraph, while Children holds
// everything else quoted, including nested quotes.
type Quote struct {
	Text     []Span
	Children []Block
}

// Table has an optional Header row, and body Rows all of the same width.
type Table struct {
	Header Row
	Rows   []Row
}

// Row is a table row; Cell is the rich text of a single table cell.
type (
	Row  []Cell
	Cell []Span
)

// Image is a standalone image line.
type Image struct {
	URL     string
	Caption string
}

// Divider is a thematic break.
type Divider struct{}

// Equation is a display math block, from "$$" delimited source.
type Equation struct {
	Expression string
}

func (Heading) Type() BlockType      { return HeadingBlock }
func (Paragraph) Type() BlockType    { return ParagraphBlock }
func (BulletItem) Type() BlockType   { return BulletItemBlock }
func (NumberedItem) Type() BlockType { return NumberedItemBlock }
func (CodeBlock) Type() BlockType    { return CodeBlockBlock }
func (Quote) Type() BlockType        { return QuoteBlock }
func (Table) Type() BlockType        { return TableBlock }
func (Image) Type() BlockType        { return ImageBlock }
func (Divider) Type() BlockType      { return DividerBlock }
func (Equation) Type() BlockType     { return EquationBlock }

func (Heading) block()      {}
func (Paragraph) block()    {}
func (BulletItem) block()   {}
func (NumberedItem) block() {}
func (CodeBlock) block()    {}
func (Quote) block()        {}
func (Table) block()        {}
func (Image) block()        {}
func (Divider) block()      {}
func (Equation) block()     {}

// Width returns how many cells each table row has.
func (t Table) Width() int {
	if t.Header != nil {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// Children returns any child blocks of b; only list items and quotes have any.
func Children(b Block) []Block {
	switch b := b.(type) {
	case BulletItem:
		return b.Children
	case NumberedItem:
		return b.Children
	case Quote:
		return b.Children
	default:
		return nil
	}
}

// RichText returns the leading rich text of b, if its type has any.
func RichText(b Block) []Span {
	switch b := b.(type) {
	case Heading:
		return b.Text
	case Paragraph:
		return b.Text
	case BulletItem:
		return b.Text
	case NumberedItem:
		return b.Text
	case Quote:
		return b.Text
	default:
		return nil
	}
}

// withChildren returns a copy of b with its children replaced; it is the
// identity for block types that cannot have children.
func withChildren(b Block, children []Block) Block {
	switch b := b.(type) {
	case BulletItem:
		b.Children = children
		return b
	case NumberedItem:
		b.Children = children
		return b
	case Quote:
		b.Children = children
		return b
	default:
		return b
	}
}

// Document is the ordered sequence of top-level blocks parsed from a source
// text. It is never mutated after Parse returns it.
type Document struct {
	Blocks []Block
}

// Len returns the total number of blocks in the document, at all depths.
func (doc Document) Len() (n int) {
	doc.Walk(func(Block, int) bool {
		n++
		return true
	})
	return n
}

// Walk calls fn for every block in document order, parents before their
// children, along with each block's nesting depth (0 for top-level blocks).
// Returning false from fn skips the children of that block.
func (doc Document) Walk(fn func(b Block, depth int) bool) {
	walkBlocks(doc.Blocks, 0, fn)
}

func walkBlocks(blocks []Block, depth int, fn func(Block, int) bool) {
	for _, b := range blocks {
		if fn(b, depth) {
			walkBlocks(Children(b), depth+1, fn)
		}
	}
}

// Entry is a single element of a flattened Document.
type Entry struct {
	Block  Block
	Depth  int
	Parent int // index of the parent Entry, or -1 for top-level blocks
}

// Flatten returns all document blocks in pre-order, each referencing its
// parent by index. This is the sequence that an uploader can chunk without
// re-walking the tree: every parent precedes its children, and siblings keep
// their source order.
func (doc Document) Flatten() []Entry {
	entries := make([]Entry, 0, len(doc.Blocks))
	var parents []int
	doc.Walk(func(b Block, depth int) bool {
		parents = parents[:depth]
		parent := -1
		if depth > 0 {
			parent = parents[depth-1]
		}
		parents = append(parents, len(entries))
		entries = append(entries, Entry{b, depth, parent})
		return true
	})
	return entries
}
