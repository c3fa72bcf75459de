package notion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/mdnotion/internal/config"
	"github.com/jcorbin/mdnotion/internal/logging"
	"github.com/jcorbin/mdnotion/scandown"
)

// Sink writes parsed documents into pages.
type Sink struct {
	client    *Client
	batchSize int
	workers   int
	validator *Validator
	log       logging.Logger
}

// NewSink returns a sink writing through client; log may be nil.
func NewSink(client *Client, cfg config.NotionConfig, log logging.Logger) (*Sink, error) {
	if log == nil {
		log = logging.Nop()
	}
	s := &Sink{
		client:    client,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		log:       log,
	}
	if s.batchSize < 1 {
		s.batchSize = 100
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if cfg.ValidatePayloads {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		s.validator = v
	}
	return s, nil
}

// Clear deletes every existing child block of page.
func (s *Sink) Clear(ctx context.Context, page uuid.UUID) error {
	blocks, err := s.client.ListChildren(ctx, page.String())
	if err != nil {
		return fmt.Errorf("list page blocks: %w", err)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, b := range blocks {
		id := b.ID
		g.Go(func() error {
			if err := s.client.DeleteBlock(ctx, id); err != nil {
				return fmt.Errorf("delete block %v: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("cleared page", "page", page, "blocks", len(blocks))
	return nil
}

// SetTitle replaces the title of page.
func (s *Sink) SetTitle(ctx context.Context, page uuid.UUID, title string) error {
	if err := s.client.SetPageTitle(ctx, page.String(), title); err != nil {
		return fmt.Errorf("set page title: %w", err)
	}
	s.log.Info("updated page title", "page", page, "title", title)
	return nil
}

type appendJob struct {
	parent  string
	entries []int
}

// Append adds every block of doc to the end of page.
//
// Top level blocks are appended first, then the children of every created
// block, one nesting level at a time, with up to the configured number of
// parents in flight at once. Each parent's children are sent in order, in
// batches no larger than the batch size.
func (s *Sink) Append(ctx context.Context, page uuid.UUID, doc scandown.Document) error {
	entries := doc.Flatten()
	ids := make([]string, len(entries))
	kids := make([][]int, len(entries))
	var top []int
	for i, entry := range entries {
		if entry.Parent < 0 {
			top = append(top, i)
		} else {
			kids[entry.Parent] = append(kids[entry.Parent], i)
		}
	}

	jobs := []appendJob{{page.String(), top}}
	for depth := 0; len(jobs) > 0; depth++ {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, job := range jobs {
			g.Go(func() error { return s.appendAll(gctx, job, entries, ids) })
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var next []appendJob
		for _, job := range jobs {
			for _, i := range job.entries {
				if len(kids[i]) > 0 {
					next = append(next, appendJob{ids[i], kids[i]})
				}
			}
		}
		s.log.Debug("appended level", "depth", depth, "parents", len(jobs))
		jobs = next
	}
	s.log.Info("appended blocks", "page", page, "blocks", len(entries))
	return nil
}

// appendAll sends the blocks of job.entries under job.parent, recording
// each created block id into ids. Table rows past the batch size are
// appended to their table once it exists.
func (s *Sink) appendAll(ctx context.Context, job appendJob, entries []scandown.Entry, ids []string) error {
	blocks := make([]Block, len(job.entries))
	rows := make(map[int][]Block)
	for j, i := range job.entries {
		wb, err := EncodeBlock(entries[i].Block)
		if err != nil {
			return err
		}
		if wb.Table != nil && len(wb.Table.Children) > s.batchSize {
			rows[j] = wb.Table.Children[s.batchSize:]
			wb.Table.Children = wb.Table.Children[:s.batchSize:s.batchSize]
		}
		blocks[j] = wb
	}

	created, err := s.appendBlocks(ctx, job.parent, blocks)
	if err != nil {
		return err
	}
	for j, i := range job.entries {
		ids[i] = created[j].ID
	}
	for j := range blocks {
		if more := rows[j]; len(more) > 0 {
			if _, err := s.appendBlocks(ctx, created[j].ID, more); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendBlocks appends blocks under parent in order, batchSize at a time.
func (s *Sink) appendBlocks(ctx context.Context, parent string, blocks []Block) ([]Block, error) {
	created := make([]Block, 0, len(blocks))
	for start := 0; start < len(blocks); start += s.batchSize {
		batch := blocks[start:min(start+s.batchSize, len(blocks))]
		if s.validator != nil {
			if err := s.validator.Validate(batch); err != nil {
				return nil, err
			}
		}
		res, err := s.client.AppendChildren(ctx, parent, batch)
		if err != nil {
			return nil, fmt.Errorf("append %v blocks to %v: %w", len(batch), parent, err)
		}
		if len(res) != len(batch) {
			return nil, fmt.Errorf("append to %v created %v blocks, expected %v", parent, len(res), len(batch))
		}
		created = append(created, res...)
		s.log.Debug("appended batch", "parent", parent, "blocks", len(batch))
	}
	return created, nil
}
