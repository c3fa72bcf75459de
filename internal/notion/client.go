package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcorbin/mdnotion/internal/config"
	"github.com/jcorbin/mdnotion/internal/logging"
)

const (
	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// Client makes authenticated JSON requests to the API, retrying any
// IsRetryable failure with exponential backoff.
type Client struct {
	baseURL    string
	version    string
	token      string
	maxRetries int
	http       *http.Client
	log        logging.Logger
	sleep      func(context.Context, time.Duration) error
}

// NewClient returns a client authenticated by token; log may be nil.
func NewClient(cfg config.NotionConfig, token string, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		version:    cfg.Version,
		token:      token,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: cfg.Timeout},
		log:        log,
		sleep:      sleepContext,
	}
}

type listResponse struct {
	Results    []Block `json:"results"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// ListChildren returns every child block of id, following pagination.
func (c *Client) ListChildren(ctx context.Context, id string) ([]Block, error) {
	var (
		blocks []Block
		cursor string
	)
	for {
		query := url.Values{"page_size": {"100"}}
		if cursor != "" {
			query.Set("start_cursor", cursor)
		}
		var page listResponse
		if err := c.do(ctx, http.MethodGet, "/blocks/"+id+"/children?"+query.Encode(), nil, &page); err != nil {
			return nil, err
		}
		blocks = append(blocks, page.Results...)
		if !page.HasMore || page.NextCursor == "" {
			return blocks, nil
		}
		cursor = page.NextCursor
	}
}

// DeleteBlock archives block id.
func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/blocks/"+id, nil, nil)
}

// AppendChildren adds children after any existing children of id, returning
// the created blocks in order.
func (c *Client) AppendChildren(ctx context.Context, id string, children []Block) ([]Block, error) {
	var res listResponse
	body := struct {
		Children []Block `json:"children"`
	}{children}
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+id+"/children", body, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SetPageTitle replaces the title property of page id.
func (c *Client) SetPageTitle(ctx context.Context, id, title string) error {
	body := map[string]any{
		"properties": map[string]any{
			"title": map[string]any{"title": plainText(title)},
		},
	}
	return c.do(ctx, http.MethodPatch, "/pages/"+id, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %v %v: %w", method, path, err)
		}
	}
	for attempt := 0; ; attempt++ {
		err := c.roundTrip(ctx, method, path, payload, out)
		if err == nil || !IsRetryable(err) || attempt >= c.maxRetries {
			return err
		}
		delay := retryDelay(attempt, err)
		c.log.Warn("retrying request",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"delay", delay,
			"error", err)
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %v %v response: %v", ErrTransport, method, path, err)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{}
		_ = json.Unmarshal(data, apiErr)
		apiErr.Status = resp.StatusCode
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return apiErr
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %v %v response: %w", method, path, err)
		}
	}
	return nil
}

// retryDelay doubles from minRetryDelay with every attempt, unless the
// server asked for a specific delay.
func retryDelay(attempt int, err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	delay := minRetryDelay << uint(attempt)
	if delay <= 0 || delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
