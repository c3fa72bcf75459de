// Command scanex parses markdown from stdin and prints the resulting block
// tree, one numbered entry per block.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcorbin/mdnotion/internal/logging"
	"github.com/jcorbin/mdnotion/internal/textio"
	"github.com/jcorbin/mdnotion/scandown"
)

func main() {
	var (
		in       = os.Stdin
		out      = &textio.ErrWriter{Writer: os.Stdout}
		verbose  bool
		tabWidth int
	)

	flag.BoolVar(&verbose, "v", false, "enable verbose output")
	flag.IntVar(&tabWidth, "tab", scandown.DefaultTabWidth, "tab stop width")
	flag.Parse()

	logOut := textio.PrefixWriter("> log: ", out)
	defer logOut.Close()
	log := logging.NewWriter(logOut, logging.FileOptions{MinLevel: logging.LevelDebug})

	cfg := scandown.Config{
		TabWidth: tabWidth,
		OnRecover: func(d scandown.Diagnostic) {
			log.Warn("recovered", "line", d.Line, "kind", d.Kind.String(), "detail", d.Detail)
		},
	}
	doc, err := cfg.ParseReader(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scanex: %v\n", err)
		os.Exit(1)
	}
	if err := dump(out, doc, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "scanex: write error: %v\n", err)
		os.Exit(1)
	}
}

func dump(out io.Writer, doc scandown.Document, verbose bool) error {
	entries := doc.Flatten()
	n := 0
	return textio.WriteLines(out, func(w io.Writer, _ func()) bool {
		if n >= len(entries) {
			return false
		}
		entry := entries[n]
		n++

		width, _ := fmt.Fprintf(w, "%v%v. ", strings.Repeat("  ", entry.Depth), n)
		itemOut := textio.PrefixWriter(strings.Repeat(" ", width), w)
		itemOut.Skip = true
		defer itemOut.Close()

		if verbose {
			fmt.Fprintf(itemOut, "%+v\n", entry.Block)
			for _, span := range scandown.RichText(entry.Block) {
				fmt.Fprintf(itemOut, "- %+v\n", span)
			}
		} else {
			fmt.Fprintf(itemOut, "%v\n", entry.Block)
		}
		return true
	})
}
