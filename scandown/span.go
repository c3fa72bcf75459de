package scandown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a maximal run of text sharing the same inline formatting.
//
// Code and Math spans never carry any other formatting flag, although they may
// still be linked. A Link is empty when the span is not linked.
type Span struct {
	Text          string
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
	Highlight     bool
	Math          bool
	Superscript   bool
	Subscript     bool
	Link          string
}

// Plain returns true if the span has no formatting or link.
func (s Span) Plain() bool { return s.style() == Span{} }

// style returns the span's formatting attributes, without its text.
func (s Span) style() Span {
	s.Text = ""
	return s
}

// PlainText concatenates the text of all given spans, dropping formatting.
func PlainText(spans []Span) string {
	switch len(spans) {
	case 0:
		return ""
	case 1:
		return spans[0].Text
	}
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// ParseSpans resolves the inline markup of a single line of text into spans.
//
// Code (backtick delimited) and math ($ delimited) spans are recognized first,
// and their contents are never scanned for further markup. The remaining text
// is scanned for emphasis markers, in priority order: "***" (bold and italic),
// "~~" (strikethrough), "==" (highlight), "**" or "__" (bold), "*" or "_"
// (italic), "^" (superscript), and "~" (subscript). Links and inline images
// may wrap emphasized text.
//
// Markup never fails: unmatched markers are kept as literal text, as are any
// backslash escaped punctuation characters.
func ParseSpans(text string) []Span {
	return spanResolver{}.resolve(text)
}

type spanResolver struct {
	// malformed, if not nil, is called with every marker that failed to match
	malformed func(mark string)
}

func (sr spanResolver) resolve(text string) []Span {
	var sb spanBuilder
	sr.scan(&sb, text, Span{})
	return sb.spans
}

type spanBuilder struct {
	spans []Span
}

func (sb *spanBuilder) add(style Span, text string) {
	if text == "" {
		return
	}
	if i := len(sb.spans) - 1; i >= 0 && sb.spans[i].style() == style {
		sb.spans[i].Text += text
		return
	}
	style.Text = text
	sb.spans = append(sb.spans, style)
}

type emphasis struct {
	mark string
	set  func(*Span)
}

// emphases lists markers in priority order; longer markers of the same byte
// must precede shorter ones.
var emphases = []emphasis{
	{"***", func(s *Span) { s.Bold, s.Italic = true, true }},
	{"~~", func(s *Span) { s.Strikethrough = true }},
	{"==", func(s *Span) { s.Highlight = true }},
	{"**", func(s *Span) { s.Bold = true }},
	{"__", func(s *Span) { s.Bold = true }},
	{"*", func(s *Span) { s.Italic = true }},
	{"_", func(s *Span) { s.Italic = true }},
	{"^", func(s *Span) { s.Superscript = true }},
	{"~", func(s *Span) { s.Subscript = true }},
}

func (sr spanResolver) scan(sb *spanBuilder, s string, style Span) {
	var lit strings.Builder
	flush := func() {
		sb.add(style, lit.String())
		lit.Reset()
	}

	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && isPunct(s[i+1]) {
				lit.WriteByte(s[i+1])
				i += 2
				continue
			}

		case '`':
			n := runLen(s, i, '`')
			if end := closingRun(s, i+n, '`', n); end >= 0 {
				flush()
				sb.add(Span{Code: true, Link: style.Link}, trimCodeSpan(s[i+n:end]))
				i = end + n
				continue
			}
			sr.fail(s[i : i+n])
			lit.WriteString(s[i : i+n])
			i += n
			continue

		case '$':
			if start, end, next := mathSpan(s, i); next > i {
				flush()
				sb.add(Span{Math: true, Link: style.Link}, s[start:end])
				i = next
				continue
			}

		case '!':
			if i+1 < len(s) && s[i+1] == '[' {
				if label, url, next := linkAt(s, i+1); next > i+1 {
					flush()
					linked := style
					linked.Link = url
					sb.add(linked, label)
					i = next
					continue
				}
			}

		case '[':
			if label, url, next := linkAt(s, i); next > i {
				flush()
				linked := style
				linked.Link = url
				sr.scan(sb, label, linked)
				i = next
				continue
			}

		case '*', '_', '~', '=', '^':
			n := runLen(s, i, c)
			if !canOpen(s, i, n) {
				lit.WriteString(s[i : i+n])
				i += n
				continue
			}
			matched := false
			for _, em := range emphases {
				m := len(em.mark)
				if em.mark[0] != c || m > n {
					continue
				}
				if end := findCloser(s, i+n, c, m); end >= 0 {
					flush()
					inner := style
					em.set(&inner)
					sr.scan(sb, s[i+m:end], inner)
					i = end + m
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if c != '=' || n > 1 {
				sr.fail(s[i : i+n])
			}
			lit.WriteString(s[i : i+n])
			i += n
			continue
		}

		lit.WriteByte(s[i])
		i++
	}
	flush()
}

func (sr spanResolver) fail(mark string) {
	if sr.malformed != nil {
		sr.malformed(mark)
	}
}

// canOpen returns true if the n byte marker run at s[i] may open an emphasis:
// it must be followed by a non-space, and an underscore must not be within a
// word.
func canOpen(s string, i, n int) bool {
	if i+n >= len(s) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(s[i+n:]); unicode.IsSpace(r) {
		return false
	}
	if s[i] == '_' && isWordBefore(s, i) {
		return false
	}
	return true
}

// findCloser returns the offset of the first run of exactly n c bytes, at or
// after i, that may close an emphasis; returns -1 if there is none. Escapes,
// code and math spans, and links are skipped over.
func findCloser(s string, i int, c byte, n int) int {
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '`':
			m := runLen(s, i, '`')
			if end := closingRun(s, i+m, '`', m); end >= 0 {
				i = end + m
			} else {
				i += m
			}
			continue
		case '$':
			if _, _, next := mathSpan(s, i); next > i {
				i = next
				continue
			}
		case '[':
			if _, _, next := linkAt(s, i); next > i {
				i = next
				continue
			}
		case c:
			m := runLen(s, i, c)
			if m == n && !isSpaceBefore(s, i) && (c != '_' || !isWordAfter(s, i+m)) {
				return i
			}
			i += m
			continue
		}
		i++
	}
	return -1
}

// closingRun returns the offset of the first run of exactly n c bytes at or
// after i, or -1.
func closingRun(s string, i int, c byte, n int) int {
	for i < len(s) {
		j := strings.IndexByte(s[i:], c)
		if j < 0 {
			return -1
		}
		i += j
		m := runLen(s, i, c)
		if m == n {
			return i
		}
		i += m
	}
	return -1
}

func runLen(s string, i int, c byte) (n int) {
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// trimCodeSpan strips a single space from both ends of code span content,
// when both are present, so that a code span may start or end with a
// backtick.
func trimCodeSpan(code string) string {
	if len(code) >= 2 && code[0] == ' ' && code[len(code)-1] == ' ' && strings.TrimSpace(code) != "" {
		return code[1 : len(code)-1]
	}
	return code
}

// mathSpan recognizes "$$...$$" or "$...$" at s[i], returning the content
// range and the offset just past the closing delimiter; next is i if there is
// no math span. A single dollar must hug its content, and must not be directly
// followed by a digit, so that prices stay literal.
func mathSpan(s string, i int) (start, end, next int) {
	if strings.HasPrefix(s[i:], "$$") {
		start = i + 2
		if j := strings.Index(s[start:], "$$"); j > 0 {
			end = start + j
			return start, end, end + 2
		}
		return 0, 0, i
	}
	start = i + 1
	if start >= len(s) || s[start] == ' ' || s[start] == '$' {
		return 0, 0, i
	}
	for j := start + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '$':
			if s[j-1] == ' ' {
				continue
			}
			if j+1 < len(s) && isDigit(s[j+1]) {
				continue
			}
			return start, j, j + 1
		}
	}
	return 0, 0, i
}

// linkAt recognizes "[label](url)" at s[i], returning the label, the link
// destination, and the offset just past it; next is i if there is no link.
// An optional quoted title after the destination is ignored.
func linkAt(s string, i int) (label, url string, next int) {
	depth := 0
	j := i
scanLabel:
	for ; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '`':
			m := runLen(s, j, '`')
			if end := closingRun(s, j+m, '`', m); end >= 0 {
				j = end + m - 1
			} else {
				j += m - 1
			}
		case '$':
			if _, _, next := mathSpan(s, j); next > j {
				j = next - 1
			}
		case '[':
			depth++
		case ']':
			if depth--; depth == 0 {
				break scanLabel
			}
		}
	}
	if j+1 >= len(s) || s[j] != ']' || s[j+1] != '(' {
		return "", "", i
	}
	label = s[i+1 : j]

	depth = 0
	k := j + 1
scanDest:
	for ; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				break scanDest
			}
		}
	}
	if k >= len(s) {
		return "", "", i
	}

	dest := strings.TrimSpace(s[j+2 : k])
	if sp := strings.IndexAny(dest, " \t"); sp >= 0 {
		dest = dest[:sp]
	}
	dest = strings.TrimSuffix(strings.TrimPrefix(dest, "<"), ">")
	if dest == "" {
		return "", "", i
	}
	return label, dest, k + 1
}

func isSpaceBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}

func isWordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
