// Package mdsource loads markdown files, splitting off any front matter.
package mdsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a markdown file, in YAML
// or TOML.
type FrontMatter struct {
	Title string         `yaml:"title" toml:"title"`
	Tags  []string       `yaml:"tags" toml:"tags"`
	Extra map[string]any `yaml:",inline" toml:"-"`
}

// Source is a loaded markdown file.
type Source struct {
	Path string
	Meta FrontMatter
	Body string
}

// Load reads the markdown file at path.
func Load(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read markdown: %w", err)
	}
	return Parse(path, data)
}

// Parse splits data, the content of the file at path, into front matter
// and markdown body. Data without front matter is all body.
func Parse(path string, data []byte) (Source, error) {
	src := Source{Path: path}
	body, err := frontmatter.Parse(bytes.NewReader(data), &src.Meta)
	if err != nil {
		return src, fmt.Errorf("parse front matter of %v: %w", path, err)
	}
	src.Body = string(body)
	return src, nil
}

// Title returns the front matter title, or else a title derived from the
// file name: its extension dropped, with dashes and underscores as spaces.
func (src Source) Title() string {
	if title := strings.TrimSpace(src.Meta.Title); title != "" {
		return title
	}
	name := filepath.Base(src.Path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
