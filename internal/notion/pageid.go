package notion

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ParsePageID extracts a page id from either a bare id, 32 hex digits with
// or without dashes, or a page URL whose last path segment ends in the id,
// like "https://www.notion.so/workspace/Page-Title-0123456789abcdef0123456789abcdef".
func ParsePageID(ref string) (uuid.UUID, error) {
	s := strings.TrimSpace(ref)
	if u, err := url.Parse(s); err == nil && (u.Scheme != "" || strings.Contains(s, "/")) {
		s = path.Base(strings.TrimRight(u.Path, "/"))
	}
	if id, ok := parseID(s); ok {
		return id, nil
	}
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		if id, ok := parseID(s[i+1:]); ok {
			return id, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidPageID, ref)
}

func parseID(s string) (uuid.UUID, bool) {
	if len(s) != 32 && len(s) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}
