package scandown

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind is the classification of a single source line.
type LineKind int

// LineKind constants.
const (
	BlankLine LineKind = iota
	TextLine
	HeadingLine
	ListItemLine
	FenceOpenLine
	FenceCloseLine
	FenceContentLine
	MathOpenLine
	EquationLine
	QuoteLine
	RuleLine
	TableRowLine
	ImageLine
)

// Line is a classified source line.
type Line struct {
	Kind LineKind

	// Raw is the source line, without any line ending.
	Raw string

	// Indent is the width of leading whitespace, with tabs counting as
	// LineContext.TabWidth columns each.
	Indent int

	// Level is the heading level or the quote depth.
	Level int

	// Delim may contain a delimiter byte:
	// - ListItemLine: '-', '*', '+', '.', or ')'
	// - FenceOpenLine, FenceCloseLine: '`' or '~'
	// - MathOpenLine: '$'
	// - RuleLine: '-', '_', or '*'
	Delim byte

	// Width counts fence delimiter bytes; Number is an ordered list item's
	// ordinal.
	Width  int
	Number int

	// Text is the line content after any marker and leading whitespace; for
	// FenceContentLine it is the raw line with the fence indent removed.
	Text string

	// Info is a fence's language tag or an image's URL.
	Info string

	// Cells and Sep are only set for TableRowLine.
	Cells []string
	Sep   bool
}

// Ordered returns true if the line is a numbered list item.
func (line Line) Ordered() bool {
	return line.Kind == ListItemLine && (line.Delim == '.' || line.Delim == ')')
}

// LineContext carries the parser state needed to classify a line.
type LineContext struct {
	TabWidth int

	// Fence is the opening line of a currently open fence, if any.
	Fence *Line

	// TableRows counts how many rows an open table has buffered.
	TableRows int
}

var (
	imagePattern     = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*<?([^\s<>()]+)>?(?:\s+"[^"]*")?\s*\)$`)
	separatorPattern = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)
)

// Classify determines the kind of a single source line, extracting the
// fields relevant to that kind.
func Classify(raw string, ctx LineContext) Line {
	raw = trimNewline(raw)
	tabWidth := ctx.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	indent, rest := trimIndent(raw, len(raw)*tabWidth, tabWidth)
	line := Line{Raw: raw, Indent: indent}

	if f := ctx.Fence; f != nil {
		if delim, _, tail := fence(rest, f.Width, f.Delim); delim != 0 && strings.TrimSpace(tail) == "" {
			line.Kind = FenceCloseLine
			line.Delim = delim
			return line
		}
		line.Kind = FenceContentLine
		_, line.Text = trimIndent(raw, f.Indent, tabWidth)
		return line
	}

	if strings.TrimSpace(rest) == "" {
		line.Kind = BlankLine
		return line
	}
	rest = strings.TrimRight(rest, " \t")

	if delim, width, tail := fence(rest, 3, '`', '~'); delim != 0 && (delim != '`' || strings.IndexByte(tail, '`') < 0) {
		line.Kind = FenceOpenLine
		line.Delim = delim
		line.Width = width
		if fields := strings.Fields(tail); len(fields) > 0 {
			line.Info = fields[0]
		}
		return line
	}

	if strings.HasPrefix(rest, "$$") {
		if rest == "$$" {
			line.Kind = MathOpenLine
			line.Delim = '$'
			line.Width = 2
			return line
		}
		if len(rest) > 4 && strings.HasSuffix(rest, "$$") {
			line.Kind = EquationLine
			line.Text = strings.TrimSpace(rest[2 : len(rest)-2])
			return line
		}
	}

	if ctx.TableRows == 1 && isTableSeparator(rest) {
		line.Kind = TableRowLine
		line.Sep = true
		line.Cells = splitCells(rest)
		return line
	}

	if delim, _, _ := ruler(rest, '-', '_', '*'); delim != 0 {
		line.Kind = RuleLine
		line.Delim = delim
		return line
	}

	if delim, level, tail := delimiter(rest, 6, '#'); delim != 0 && indent <= 3 {
		line.Kind = HeadingLine
		line.Level = level
		line.Text = trimClosingHashes(strings.TrimSpace(tail))
		return line
	}

	if depth, tail := quoteMarker(rest); depth > 0 {
		line.Kind = QuoteLine
		line.Level = depth
		line.Text = strings.TrimSpace(tail)
		return line
	}

	if delim, number, cont := listMarker(rest); delim != 0 {
		line.Kind = ListItemLine
		line.Delim = delim
		line.Number = number
		line.Text = strings.TrimSpace(cont)
		return line
	}

	if m := imagePattern.FindStringSubmatch(rest); m != nil {
		line.Kind = ImageLine
		line.Text = m[1]
		line.Info = m[2]
		return line
	}

	if hasUnescapedPipe(rest) {
		line.Kind = TableRowLine
		line.Cells = splitCells(rest)
		line.Sep = isTableSeparator(rest)
		return line
	}

	line.Kind = TextLine
	line.Text = rest
	return line
}

// quoteMarker counts leading '>' markers, which may be separated by spaces,
// returning the depth and the remaining line content.
func quoteMarker(line string) (depth int, tail string) {
	tail = line
	for len(tail) > 0 && tail[0] == '>' {
		depth++
		tail = strings.TrimLeft(tail[1:], " \t")
	}
	return depth, tail
}

// stripQuote removes a single quote marker, and a single space after it, from
// the given line.
func stripQuote(line string) string {
	line = strings.TrimLeft(line, " \t")
	line = strings.TrimPrefix(line, ">")
	return strings.TrimPrefix(line, " ")
}

// listMarker recognizes a bullet ("-", "*", "+") or ordinal ("1." or "1)")
// list marker, which must be followed by space or end of line.
func listMarker(line string) (delim byte, number int, cont string) {
	delim, _, tail := delimiter(line, 1, '-', '*', '+')
	if delim == 0 {
		var width int
		if width, tail = ordinal(line); width > 0 && len(tail) > 0 {
			number, _ = strconv.Atoi(line[:width])
			delim, _, tail = delimiter(tail, 1, '.', ')')
		}
	}
	if delim != 0 {
		return delim, number, tail
	}
	return 0, 0, ""
}

// delimiter recognizes a run of up to maxWidth identical mark bytes, which
// must be followed by space or end of line.
func delimiter(line string, maxWidth int, marks ...byte) (delim byte, width int, tail string) {
	if len(line) == 0 {
		return 0, 0, ""
	}
	if delim = line[0]; !isByte(delim, marks...) {
		return 0, 0, ""
	}

	width++
	tail = line[1:]
	for {
		if len(tail) == 0 {
			return delim, width, tail
		}
		switch tail[0] {
		case delim:
			if width++; width > maxWidth {
				return 0, 0, ""
			}
			tail = tail[1:]
		case ' ', '\t':
			return delim, width, tail
		default:
			return 0, 0, ""
		}
	}
}

func ordinal(line string) (width int, tail string) {
	tail = line
	for len(tail) > 0 && isDigit(tail[0]) {
		width++
		tail = tail[1:]
	}
	if width < 1 || width > 9 {
		return 0, ""
	}
	return width, tail
}

func fence(line string, min int, marks ...byte) (fence byte, width int, tail string) {
	if len(line) == 0 {
		return 0, 0, ""
	}
	if fence = line[0]; !isByte(fence, marks...) {
		return 0, 0, ""
	}
	for width = 1; width < len(line); width++ {
		if line[width] != fence {
			break
		}
	}
	if width < min {
		return 0, 0, ""
	}
	return fence, width, line[width:]
}

// ruler recognizes a thematic break: at least 3 identical rule bytes,
// optionally separated by spaces.
func ruler(line string, marks ...byte) (rule byte, count int, tail string) {
	if len(line) == 0 {
		return 0, 0, ""
	}
	if rule = line[0]; !isByte(rule, marks...) {
		return 0, 0, ""
	}
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case rule:
			count++
		case ' ', '\t':
		default:
			return 0, 0, ""
		}
	}
	if count < 3 {
		return 0, 0, ""
	}
	return rule, count, ""
}

func trimClosingHashes(text string) string {
	i := len(text)
	for i > 0 && text[i-1] == '#' {
		i--
	}
	switch {
	case i == 0:
		return ""
	case i < len(text) && (text[i-1] == ' ' || text[i-1] == '\t'):
		return strings.TrimRight(text[:i], " \t")
	default:
		return text
	}
}

func isTableSeparator(line string) bool {
	if !separatorPattern.MatchString(line) {
		return false
	}
	return hasUnescapedPipe(line) || strings.Count(line, "-") >= 3
}

func hasUnescapedPipe(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			return true
		}
	}
	return false
}

// splitCells splits a table row on unescaped pipes, discarding the empty
// outer cells produced by leading and trailing pipes. Escaped pipes are kept
// escaped, for the span resolver to unescape.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if n := len(line); n > 0 && line[n-1] == '|' && (n < 2 || line[n-2] != '\\') {
		line = line[:n-1]
	}
	var cells []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(line[start:i]))
			start = i + 1
		}
	}
	return append(cells, strings.TrimSpace(line[start:]))
}

func isByte(b byte, any ...byte) bool {
	for _, ab := range any {
		if b == ab {
			return true
		}
	}
	return false
}

func trimNewline(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// trimIndent strips up to limit columns of leading whitespace, counting each
// tab as tabWidth columns; a tab that would overshoot limit is kept.
func trimIndent(line string, limit, tabWidth int) (n int, tail string) {
	for tail = line; n < limit && len(tail) > 0; tail = tail[1:] {
		if c := tail[0]; c == ' ' {
			n++
		} else if c == '\t' {
			if n+tabWidth > limit {
				return n, tail
			}
			n += tabWidth
		} else {
			break
		}
	}
	return n, tail
}
