package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcorbin/mdnotion/internal/config"
)

// fakeAPI is an in-memory stand-in for the block endpoints.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int
	children map[string][]Block
	titles   map[string]string
	deleted  []string
	appends  []string // parent of every append call, in order
	fail     map[string][]int
	pageSize int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	api := &fakeAPI{
		children: make(map[string][]Block),
		titles:   make(map[string]string),
		fail:     make(map[string][]int),
		pageSize: 100,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/blocks/{id}/children", api.list)
	mux.HandleFunc("PATCH /v1/blocks/{id}/children", api.append)
	mux.HandleFunc("DELETE /v1/blocks/{id}", api.delete)
	mux.HandleFunc("PATCH /v1/pages/{id}", api.setTitle)
	srv := httptest.NewServer(api.auth(mux))
	t.Cleanup(srv.Close)
	return api, srv
}

// failNext makes the next requests for path respond with the given statuses.
func (api *fakeAPI) failNext(method, path string, statuses ...int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.fail[method+" "+path] = statuses
}

func (api *fakeAPI) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
			return
		}
		if r.Header.Get("Notion-Version") == "" {
			writeError(w, http.StatusBadRequest, "missing_version", "Notion-Version header failed validation")
			return
		}
		key := r.Method + " " + r.URL.Path
		api.mu.Lock()
		statuses := api.fail[key]
		if len(statuses) > 0 {
			api.fail[key] = statuses[1:]
		}
		api.mu.Unlock()
		if len(statuses) > 0 {
			if statuses[0] == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", "2")
			}
			writeError(w, statuses[0], "injected", "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "error", "status": status, "code": code, "message": msg,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (api *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()
	all := api.children[r.PathValue("id")]
	start := 0
	if cursor := r.URL.Query().Get("start_cursor"); cursor != "" {
		fmt.Sscan(cursor, &start)
	}
	end := start + api.pageSize
	res := listResponse{}
	if end < len(all) {
		res.HasMore, res.NextCursor = true, fmt.Sprint(end)
	} else {
		end = len(all)
	}
	res.Results = append([]Block{}, all[start:end]...)
	writeJSON(w, res)
}

func (api *fakeAPI) append(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Children []Block `json:"children"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if len(body.Children) > 100 {
		writeError(w, http.StatusBadRequest, "validation_error", "body.children.length should be ≤ 100")
		return
	}
	parent := r.PathValue("id")
	api.mu.Lock()
	defer api.mu.Unlock()
	api.appends = append(api.appends, parent)
	created := make([]Block, len(body.Children))
	for i, b := range body.Children {
		api.nextID++
		b.ID = fmt.Sprintf("blk-%d", api.nextID)
		created[i] = b
	}
	api.children[parent] = append(api.children[parent], created...)
	writeJSON(w, listResponse{Results: created})
}

func (api *fakeAPI) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	api.mu.Lock()
	defer api.mu.Unlock()
	api.deleted = append(api.deleted, id)
	for parent, blocks := range api.children {
		for i, b := range blocks {
			if b.ID == id {
				api.children[parent] = append(blocks[:i:i], blocks[i+1:]...)
				break
			}
		}
	}
	writeJSON(w, map[string]any{"object": "block", "id": id, "archived": true})
}

func (api *fakeAPI) setTitle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Properties struct {
			Title struct {
				Title []RichText `json:"title"`
			} `json:"title"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	var title strings.Builder
	for _, rt := range body.Properties.Title.Title {
		title.WriteString(rt.Text.Content)
	}
	api.mu.Lock()
	api.titles[r.PathValue("id")] = title.String()
	api.mu.Unlock()
	writeJSON(w, map[string]any{"object": "page", "id": r.PathValue("id")})
}

// kinds returns the block types under parent, with nested children in
// brackets.
func (api *fakeAPI) kinds(parent string) string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.kindsLocked(parent)
}

func (api *fakeAPI) kindsLocked(parent string) string {
	var parts []string
	for _, b := range api.children[parent] {
		part := b.Type
		if sub := api.kindsLocked(b.ID); sub != "" {
			part += "[" + sub + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (sr *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	sr.mu.Lock()
	sr.delays = append(sr.delays, d)
	sr.mu.Unlock()
	return ctx.Err()
}

func testConfig(baseURL string) config.NotionConfig {
	cfg := config.Default().Notion
	cfg.BaseURL = baseURL + "/v1"
	cfg.Timeout = 5 * time.Second
	return cfg
}

func newTestClient(t *testing.T, cfg config.NotionConfig) (*Client, *sleepRecorder) {
	t.Helper()
	client := NewClient(cfg, "secret", nil)
	var sr sleepRecorder
	client.sleep = sr.sleep
	require.NotNil(t, client.http)
	return client, &sr
}
