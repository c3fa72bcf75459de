package scandown

import (
	"fmt"
	"strings"
)

type parseState int

const (
	idle parseState = iota
	inParagraph
	inTable
	inQuote
	inFence
)

// listLevel is an open list item, still accumulating text and children.
type listLevel struct {
	indentLevel
	line     int
	number   int
	text     []string
	children []Block
}

// parser is a line at a time state machine. At most one leaf state
// (paragraph, table, quote, or fence) is open at a time, possibly owned by an
// open list level; the stack of open list levels persists underneath it.
type parser struct {
	cfg   Config
	base  int
	lines []string
	at    int

	out   []Block
	state parseState
	owner int // index of the list level owning the leaf, or -1
	start int // line index where the leaf began

	para  []string
	rows  []Line
	quote []string
	fence Line
	code  strings.Builder

	levels    []listLevel
	listBlank bool
}

func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return nil
	}
	return strings.Split(src, "\n")
}

// parse builds blocks from lines; base is the source line offset of the first
// line, used to number diagnostics.
func (p *parser) parse(lines []string, base int) []Block {
	p.lines = lines
	p.base = base
	p.owner = -1
	for p.at = 0; p.at < len(lines); p.at++ {
		p.step(p.classify(lines[p.at]))
	}
	if p.state == inFence {
		p.report(UnclosedFence, p.start, fmt.Sprintf("%q fence", strings.Repeat(string(p.fence.Delim), p.fence.Width)))
	}
	p.closeLeaf()
	p.closeList(0)
	return p.out
}

func (p *parser) classify(raw string) Line {
	ctx := LineContext{TabWidth: p.cfg.TabWidth}
	switch p.state {
	case inFence:
		ctx.Fence = &p.fence
	case inTable:
		ctx.TableRows = len(p.rows)
	}
	return Classify(raw, ctx)
}

func (p *parser) step(line Line) {
	if p.continueLeaf(line) {
		return
	}
	p.closeLeaf()
	if len(p.levels) > 0 {
		if p.continueList(line) {
			return
		}
		p.closeList(0)
	}
	p.open(line, -1)
}

func (p *parser) continueLeaf(line Line) bool {
	switch p.state {
	case inFence:
		if line.Kind == FenceCloseLine {
			p.closeLeaf()
			return true
		}
		p.code.WriteString(line.Text)
		p.code.WriteByte('\n')
		return true

	case inQuote:
		if line.Kind == QuoteLine {
			p.quote = append(p.quote, stripQuote(line.Raw))
			return true
		}

	case inTable:
		if line.Kind == TableRowLine {
			p.rows = append(p.rows, line)
			return true
		}

	case inParagraph:
		switch line.Kind {
		case TextLine:
			p.para = append(p.para, line.Text)
			return true
		case TableRowLine:
			if !p.startsTable() {
				p.para = append(p.para, strings.TrimSpace(line.Raw))
				return true
			}
		}
	}
	return false
}

// continueList handles a line while list levels are open, and no leaf is;
// returns false if the line ends the list.
func (p *parser) continueList(line Line) bool {
	switch line.Kind {
	case ListItemLine:
		p.addItem(line)
		return true

	case BlankLine:
		p.listBlank = true
		return true

	case TextLine, TableRowLine:
		if !p.listBlank {
			top := &p.levels[len(p.levels)-1]
			top.text = append(top.text, textOf(line))
			return true
		}
		fallthrough

	case FenceOpenLine, MathOpenLine, QuoteLine, ImageLine, EquationLine:
		if owner := p.ownerOf(line.Indent); owner >= 0 {
			p.listBlank = false
			p.open(line, owner)
			return true
		}
	}
	return false
}

// ownerOf returns the deepest open list level indented less than indent, or
// -1 if there is none.
func (p *parser) ownerOf(indent int) int {
	for i := len(p.levels) - 1; i >= 0; i-- {
		if p.levels[i].Indent < indent {
			return i
		}
	}
	return -1
}

func (p *parser) open(line Line, owner int) {
	p.owner = owner
	p.start = p.at
	switch line.Kind {
	case BlankLine:

	case TextLine, FenceCloseLine, FenceContentLine:
		p.state = inParagraph
		p.para = append(p.para[:0], textOf(line))

	case TableRowLine:
		if p.startsTable() {
			p.state = inTable
			p.rows = append(p.rows[:0], line)
		} else {
			p.state = inParagraph
			p.para = append(p.para[:0], textOf(line))
		}

	case HeadingLine:
		p.emit(Heading{Level: line.Level, Text: p.spans(line.Text, p.at)})

	case ListItemLine:
		p.addItem(line)

	case FenceOpenLine, MathOpenLine:
		p.state = inFence
		p.fence = line
		p.code.Reset()

	case EquationLine:
		p.emit(Equation{Expression: line.Text})

	case QuoteLine:
		p.state = inQuote
		p.quote = append(p.quote[:0], stripQuote(line.Raw))

	case RuleLine:
		p.emit(Divider{})

	case ImageLine:
		p.emit(Image{URL: line.Info, Caption: line.Text})

	default:
		panic(fmt.Sprintf("unhandled line kind %v", line.Kind))
	}
	if p.state == idle {
		p.owner = -1
	}
}

func textOf(line Line) string {
	switch line.Kind {
	case TextLine:
		return line.Text
	default:
		return strings.TrimSpace(line.Raw)
	}
}

// startsTable returns true if the line after the current one would continue
// a table begun by the current one.
func (p *parser) startsTable() bool {
	if p.at+1 >= len(p.lines) {
		return false
	}
	next := Classify(p.lines[p.at+1], LineContext{TabWidth: p.cfg.TabWidth, TableRows: 1})
	return next.Kind == TableRowLine
}

func (p *parser) closeLeaf() {
	switch p.state {
	case inParagraph:
		p.emit(Paragraph{Text: p.spans(strings.Join(p.para, " "), p.start)})
		p.para = p.para[:0]

	case inTable:
		if table, ok := assembleTable(p.rows, p.resolver(p.start)); ok {
			p.emit(table)
		} else {
			p.report(EmptyTable, p.start, "")
		}
		p.rows = p.rows[:0]

	case inQuote:
		p.emit(p.buildQuote())
		p.quote = p.quote[:0]

	case inFence:
		code := p.code.String()
		if p.fence.Kind == MathOpenLine {
			p.emit(Equation{Expression: strings.TrimSpace(code)})
		} else {
			p.emit(CodeBlock{Language: p.fence.Info, Code: code})
		}
		p.code.Reset()
	}
	p.state = idle
	p.owner = -1
}

func (p *parser) buildQuote() Quote {
	sub := parser{cfg: p.cfg}
	blocks := sub.parse(p.quote, p.base+p.start)
	var quote Quote
	if len(blocks) > 0 {
		if para, ok := blocks[0].(Paragraph); ok {
			quote.Text = para.Text
			blocks = blocks[1:]
		}
	}
	if len(blocks) > 0 {
		quote.Children = blocks
	}
	return quote
}

func (p *parser) addItem(line Line) {
	stack := make([]indentLevel, len(p.levels))
	for i, level := range p.levels {
		stack[i] = level.indentLevel
	}
	kind := listKind(line)
	level, next, restart, exact := resolveIndent(stack, line.Indent, kind)
	if !exact {
		p.report(InvalidNesting, p.at, fmt.Sprintf("indent %v does not match any open list", line.Indent))
	}

	number := line.Number
	if level < len(p.levels) {
		prev := p.levels[level]
		p.closeList(level)
		if kind == Numbered && !restart {
			number = prev.number + 1
		}
	}
	p.levels = append(p.levels, listLevel{
		indentLevel: next[level],
		line:        p.at,
		number:      number,
		text:        []string{line.Text},
	})
	p.listBlank = false
}

// closeList closes every list level from k inward, attaching each item to
// its parent item, or to the output for level 0.
func (p *parser) closeList(k int) {
	for i := len(p.levels) - 1; i >= k; i-- {
		b := p.buildItem(p.levels[i])
		if i > 0 {
			p.levels[i-1].children = append(p.levels[i-1].children, b)
		} else {
			p.out = append(p.out, b)
		}
	}
	p.levels = p.levels[:k]
	if k == 0 {
		p.listBlank = false
	}
}

func (p *parser) buildItem(level listLevel) Block {
	text := p.spans(strings.Join(level.text, " "), level.line)
	if level.Kind == Numbered {
		return NumberedItem{Number: level.number, Text: text, Children: level.children}
	}
	return BulletItem{Text: text, Children: level.children}
}

func (p *parser) emit(b Block) {
	if o := p.owner; o >= 0 && o < len(p.levels) {
		p.levels[o].children = append(p.levels[o].children, b)
		return
	}
	p.out = append(p.out, b)
}

func (p *parser) spans(text string, at int) []Span {
	return p.resolver(at).resolve(text)
}

func (p *parser) resolver(at int) spanResolver {
	if p.cfg.OnRecover == nil {
		return spanResolver{}
	}
	return spanResolver{malformed: func(mark string) {
		p.report(MalformedMarker, at, fmt.Sprintf("unmatched %q", mark))
	}}
}

func (p *parser) report(kind RecoveryKind, at int, detail string) {
	if p.cfg.OnRecover != nil {
		p.cfg.OnRecover(Diagnostic{Kind: kind, Line: p.base + at + 1, Detail: detail})
	}
}
