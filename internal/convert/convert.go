// Package convert converts markdown files into pages through a PageSink.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/renameio"
	"github.com/google/uuid"

	"github.com/jcorbin/mdnotion/internal/logging"
	"github.com/jcorbin/mdnotion/internal/mdsource"
	"github.com/jcorbin/mdnotion/internal/notion"
	"github.com/jcorbin/mdnotion/scandown"
)

// PageSink is where converted documents are written.
type PageSink interface {
	Clear(ctx context.Context, page uuid.UUID) error
	SetTitle(ctx context.Context, page uuid.UUID, title string) error
	Append(ctx context.Context, page uuid.UUID, doc scandown.Document) error
}

var errNoSink = errors.New("no page sink configured")

// Options select what ConvertFile does besides appending.
type Options struct {
	// Clear deletes the page's existing content first.
	Clear bool

	// UpdateTitle sets the page title from the source file.
	UpdateTitle bool

	// DryRunOut, if set, names a file to write the encoded blocks to
	// instead of touching the page at all.
	DryRunOut string
}

// Result describes a finished conversion.
type Result struct {
	Page        uuid.UUID
	Title       string
	Blocks      int
	Diagnostics []scandown.Diagnostic
}

// Converter converts markdown files into pages.
type Converter struct {
	Config scandown.Config
	Sink   PageSink
	Log    logging.Logger
}

// ConvertFile converts the markdown file at path into the page referenced
// by pageRef, a page id or URL.
func (c Converter) ConvertFile(ctx context.Context, path, pageRef string, opts Options) (Result, error) {
	var res Result
	log := c.Log
	if log == nil {
		log = logging.Nop()
	}

	page, err := notion.ParsePageID(pageRef)
	if err != nil {
		return res, err
	}
	res.Page = page
	log = log.WithFields(map[string]any{"page": page.String()})

	src, err := mdsource.Load(path)
	if err != nil {
		return res, err
	}
	res.Title = src.Title()

	cfg := c.Config
	onRecover := cfg.OnRecover
	cfg.OnRecover = func(d scandown.Diagnostic) {
		res.Diagnostics = append(res.Diagnostics, d)
		log.Debug("recovered from malformed markdown",
			"line", d.Line,
			"kind", d.Kind.String(),
			"detail", d.Detail)
		if onRecover != nil {
			onRecover(d)
		}
	}
	doc := cfg.Parse(src.Body)
	res.Blocks = doc.Len()
	log.Info("parsed markdown",
		"path", path,
		"blocks", res.Blocks,
		"recovered", len(res.Diagnostics))

	if opts.DryRunOut != "" {
		if err := writeDryRun(opts.DryRunOut, doc); err != nil {
			return res, err
		}
		log.Info("wrote dry run", "out", opts.DryRunOut)
		return res, nil
	}

	if c.Sink == nil {
		return res, errNoSink
	}
	if opts.Clear {
		if err := c.Sink.Clear(ctx, page); err != nil {
			return res, err
		}
	}
	if opts.UpdateTitle {
		if err := c.Sink.SetTitle(ctx, page, res.Title); err != nil {
			return res, err
		}
	}
	if err := c.Sink.Append(ctx, page, doc); err != nil {
		return res, err
	}
	return res, nil
}

func writeDryRun(name string, doc scandown.Document) error {
	blocks, err := notion.EncodeTree(doc.Blocks)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dry run: %w", err)
	}
	if err := renameio.WriteFile(name, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write dry run: %w", err)
	}
	return nil
}
