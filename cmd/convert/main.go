// Command convert writes a markdown file into a Notion page.
//
//	convert [flags] <markdown_file> <page_id_or_url>
//
// Flags may be given before or after the arguments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jcorbin/mdnotion/internal/config"
	"github.com/jcorbin/mdnotion/internal/convert"
	"github.com/jcorbin/mdnotion/internal/logging"
	"github.com/jcorbin/mdnotion/internal/notion"
	"github.com/jcorbin/mdnotion/scandown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	clear       bool
	updateTitle bool
	verbose     bool
	logDir      string
	configPath  string
	dryRun      string
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.clear, "clear", false, "delete the page's existing content first")
	fs.BoolVar(&opts.updateTitle, "update-title", false, "set the page title from the markdown file")
	fs.BoolVar(&opts.verbose, "v", false, "log debug output")
	fs.BoolVar(&opts.verbose, "verbose", false, "log debug output")
	fs.StringVar(&opts.logDir, "log-dir", "", "also write a debug log file into this directory")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.dryRun, "dry-run", "", "write the encoded blocks to this JSON file instead of the page")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: convert [flags] <markdown_file> <page_id_or_url>\n")
		fs.PrintDefaults()
	}

	positional, err := parseInterspersed(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	} else if err != nil {
		return exitUsage
	}
	if len(positional) != 2 {
		fmt.Fprintf(stderr, "convert: expected 2 arguments, got %v\n", len(positional))
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitFailure
	}

	log, closeLog, err := setupLogging(cfg.Log, opts)
	if err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitFailure
	}
	defer closeLog()

	if err := convertFile(ctx, cfg, log, positional[0], positional[1], opts); err != nil {
		log.Error("conversion failed",
			"error", err,
			"retryable", notion.IsRetryable(err))
		return exitFailure
	}
	return exitOK
}

// parseInterspersed parses flags from anywhere in args, returning the
// remaining positional arguments in order.
func parseInterspersed(fs *flag.FlagSet, args []string) (positional []string, err error) {
	for {
		if len(args) > 0 && args[0] == "--" {
			return append(positional, args[1:]...), nil
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		args = rest
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func setupLogging(cfg config.LogConfig, opts options) (logging.Logger, func(), error) {
	level := cfg.Level
	if opts.verbose {
		level = logging.LevelDebug.String()
	}
	console, err := logging.NewConsole(logging.ConsoleConfig{
		Level:  level,
		Format: cfg.Format,
	}, "convert")
	if err != nil {
		return nil, nil, err
	}
	if opts.logDir == "" {
		return console, func() {}, nil
	}
	file, closer := logging.NewFile(opts.logDir, cfg.File, logging.FileOptions{MinLevel: logging.LevelDebug})
	return logging.Tee(console, file), func() { closer.Close() }, nil
}

func convertFile(ctx context.Context, cfg config.Config, log logging.Logger, path, pageRef string, opts options) error {
	conv := convert.Converter{
		Config: scandown.Config{TabWidth: cfg.Parse.TabWidth},
		Log:    log,
	}
	if opts.dryRun == "" {
		token, err := notion.LoadToken(cfg.Notion.TokenEnv, cfg.Notion.TokenFile)
		if err != nil {
			return err
		}
		client := notion.NewClient(cfg.Notion, token, log.WithFields(map[string]any{"component": "client"}))
		sink, err := notion.NewSink(client, cfg.Notion, log.WithFields(map[string]any{"component": "sink"}))
		if err != nil {
			return err
		}
		conv.Sink = sink
	}

	res, err := conv.ConvertFile(ctx, path, pageRef, convert.Options{
		Clear:       opts.clear,
		UpdateTitle: opts.updateTitle,
		DryRunOut:   opts.dryRun,
	})
	if err != nil {
		return err
	}
	log.Info("converted",
		"path", path,
		"page", res.Page.String(),
		"title", res.Title,
		"blocks", res.Blocks)
	return nil
}
