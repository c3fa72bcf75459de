package scandown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cells(texts ...string) Row {
	row := make(Row, len(texts))
	for i, text := range texts {
		row[i] = Cell{}
		if text != "" {
			row[i] = Cell{{Text: text}}
		}
	}
	return row
}

func tableLines(lines ...string) []Line {
	rows := make([]Line, len(lines))
	for i, line := range lines {
		rows[i] = Classify(line, LineContext{TableRows: i})
	}
	return rows
}

func TestAssembleTable(t *testing.T) {
	for _, tc := range []struct {
		name  string
		lines []string
		table Table
		ok    bool
	}{
		{
			name: "short rows padded",
			lines: []string{
				"| a | b |",
				"|---|---|",
				"| 1 | 2 |",
				"| 3 |",
			},
			table: Table{
				Header: cells("a", "b"),
				Rows:   []Row{cells("1", "2"), cells("3", "")},
			},
			ok: true,
		},
		{
			name: "long rows truncated",
			lines: []string{
				"| a | b |",
				"|---|---|",
				"| 1 | 2 | 3 |",
			},
			table: Table{
				Header: cells("a", "b"),
				Rows:   []Row{cells("1", "2")},
			},
			ok: true,
		},
		{
			name: "no header uses widest row",
			lines: []string{
				"| a | b |",
				"| 1 | 2 | 3 |",
			},
			table: Table{
				Rows: []Row{cells("a", "b", ""), cells("1", "2", "3")},
			},
			ok: true,
		},
		{
			name: "later separators dropped",
			lines: []string{
				"| a |",
				"| b |",
				"|---|",
				"| c |",
			},
			table: Table{
				Rows: []Row{cells("a"), cells("b"), cells("c")},
			},
			ok: true,
		},
		{
			name: "header only",
			lines: []string{
				"| a | b |",
				"| --- | :-: |",
			},
			table: Table{Header: cells("a", "b")},
			ok:    true,
		},
		{
			name:  "separator only",
			lines: []string{"|---|---|"},
			ok:    false,
		},
		{
			name: "cells resolve inline markup",
			lines: []string{
				"| **a** | `b|c` |",
			},
			table: Table{
				Rows: []Row{{
					Cell{{Text: "a", Bold: true}},
					Cell{{Text: "`b"}},
					Cell{{Text: "c`"}},
				}},
			},
			ok: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			table, ok := assembleTable(tableLines(tc.lines...), spanResolver{})
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.table, table)
			}
		})
	}
}
