package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterspersed(t *testing.T) {
	for _, tc := range []struct {
		name       string
		args       []string
		positional []string
		clear      bool
		dryRun     string
	}{
		{"flags first", []string{"--clear", "a.md", "page"}, []string{"a.md", "page"}, true, ""},
		{"flags last", []string{"a.md", "page", "--clear", "--dry-run", "out.json"}, []string{"a.md", "page"}, true, "out.json"},
		{"flags between", []string{"a.md", "-dry-run=x.json", "page"}, []string{"a.md", "page"}, false, "x.json"},
		{"terminator", []string{"a.md", "--", "--clear"}, []string{"a.md", "--clear"}, false, ""},
		{"terminator after flag", []string{"--clear", "--", "-x.md", "page"}, []string{"-x.md", "page"}, true, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				clear  bool
				dryRun string
			)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			fs.BoolVar(&clear, "clear", false, "")
			fs.StringVar(&dryRun, "dry-run", "", "")
			positional, err := parseInterspersed(fs, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.positional, positional)
			assert.Equal(t, tc.clear, clear)
			assert.Equal(t, tc.dryRun, dryRun)
		})
	}
}

func TestRun_usage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"only-one.md"},
		{"a.md", "b", "c"},
		{"--nonesuch", "a.md", "page"},
	} {
		var stderr bytes.Buffer
		assert.Equal(t, exitUsage, run(context.Background(), args, &stderr), "args %q", args)
		assert.Contains(t, stderr.String(), "usage: convert", "args %q", args)
	}

	var stderr bytes.Buffer
	assert.Equal(t, exitOK, run(context.Background(), []string{"-h"}, &stderr))
}

func TestRun_dryRun(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	out := filepath.Join(dir, "notes.json")
	logDir := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(md, []byte("# Notes\n\n- one\n"), 0o644))

	var stderr bytes.Buffer
	code := run(context.Background(), []string{
		md, "0123456789abcdef0123456789abcdef",
		"--dry-run", out, "-v", "--log-dir", logDir,
	}, &stderr)
	require.Equal(t, exitOK, code, "stderr: %v", stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"heading_1"`)

	logData, err := os.ReadFile(filepath.Join(logDir, "markdown_notion.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "parsed markdown")
}

func TestRun_failures(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(md, []byte("text\n"), 0o644))

	var stderr bytes.Buffer
	assert.Equal(t, exitFailure, run(context.Background(),
		[]string{md, "not-a-page", "--dry-run", filepath.Join(dir, "x.json")}, &stderr))

	assert.Equal(t, exitFailure, run(context.Background(),
		[]string{md, "0123456789abcdef0123456789abcdef", "--config", filepath.Join(dir, "missing.yaml")}, &stderr))
	assert.Contains(t, stderr.String(), "read config")
}
