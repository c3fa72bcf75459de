package scandown

// ListKind distinguishes bulleted from numbered list items.
type ListKind int

// ListKind constants.
const (
	Bulleted ListKind = iota + 1
	Numbered
)

func listKind(line Line) ListKind {
	if line.Ordered() {
		return Numbered
	}
	return Bulleted
}

type indentLevel struct {
	Indent int
	Kind   ListKind
}

// resolveIndent places a new list item of the given indent and kind within
// the stack of open list levels.
//
// An item indented deeper than the innermost level opens a new level, nested
// under that level's item. Otherwise the stack is popped back to the deepest
// level indented no more than the item (the outermost level if there is
// none), and the item replaces that level's item as its next sibling. The
// level keeps the shallower of its indent and the item's. Restart is set when
// the item changes list kind at that level.
//
// The returned level is the item's index in the next stack; exact is false
// when the item did not line up with any open level.
func resolveIndent(stack []indentLevel, indent int, kind ListKind) (level int, next []indentLevel, restart, exact bool) {
	if n := len(stack); n == 0 || indent > stack[n-1].Indent {
		return n, append(stack[:n:n], indentLevel{indent, kind}), false, true
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Indent <= indent {
			level = i
			break
		}
	}
	restart = stack[level].Kind != kind
	exact = stack[level].Indent == indent
	if stack[level].Indent < indent {
		indent = stack[level].Indent
	}
	next = append(stack[:level:level], indentLevel{indent, kind})
	return level, next, restart, exact
}
