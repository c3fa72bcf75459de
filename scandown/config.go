package scandown

import (
	"fmt"
	"io"
)

// DefaultTabWidth is how many columns a tab counts for when measuring
// indentation, unless a Config says otherwise.
const DefaultTabWidth = 4

// Config threads parsing options through a single Parse call. The zero value
// is usable, and equivalent to DefaultConfig.
type Config struct {
	// TabWidth is the fixed column width of a tab in leading whitespace.
	TabWidth int

	// OnRecover, if not nil, is called with every problem that parsing
	// recovered from; such problems never fail a parse.
	OnRecover func(Diagnostic)
}

// DefaultConfig is used by the package level Parse function.
var DefaultConfig = Config{TabWidth: DefaultTabWidth}

// Parse parses markdown source text into a Document, using DefaultConfig.
func Parse(src string) Document { return DefaultConfig.Parse(src) }

// Parse parses markdown source text into a Document. It never fails: any
// malformed structure degrades into literal text, or is dropped, and is
// reported to OnRecover.
func (cfg Config) Parse(src string) Document {
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = DefaultTabWidth
	}
	p := parser{cfg: cfg}
	return Document{Blocks: p.parse(splitLines(src), 0)}
}

// ParseReader reads all of r and parses it; only read errors are returned.
func (cfg Config) ParseReader(r io.Reader) (Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("unable to read markdown: %w", err)
	}
	return cfg.Parse(string(src)), nil
}

// RecoveryKind categorizes a Diagnostic.
type RecoveryKind int

// RecoveryKind constants.
const (
	// MalformedMarker is an inline marker without a match; it was kept as
	// literal text.
	MalformedMarker RecoveryKind = iota + 1

	// UnclosedFence is a code or math fence still open at end of input; it
	// was closed there.
	UnclosedFence

	// EmptyTable is a table without any header or data rows; it was dropped.
	EmptyTable

	// InvalidNesting is a list item indented between two open levels; it
	// became a sibling of the nearest shallower one.
	InvalidNesting
)

// Diagnostic describes a problem that parsing recovered from.
type Diagnostic struct {
	Kind   RecoveryKind
	Line   int // 1-based source line
	Detail string
}

func (d Diagnostic) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("line %v: %v", d.Line, d.Kind)
	}
	return fmt.Sprintf("line %v: %v: %v", d.Line, d.Kind, d.Detail)
}

func (k RecoveryKind) String() string {
	switch k {
	case MalformedMarker:
		return "malformed marker"
	case UnclosedFence:
		return "unclosed fence"
	case EmptyTable:
		return "empty table"
	case InvalidNesting:
		return "invalid nesting"
	default:
		return fmt.Sprintf("RecoveryKind(%d)", int(k))
	}
}
