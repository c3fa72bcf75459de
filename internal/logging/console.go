package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// ConsoleConfig configures the go-logger backed console logger.
type ConsoleConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// NewConsole builds a console logger on go-logger, named for the given
// component.
func NewConsole(cfg ConsoleConfig, name string) (Logger, error) {
	options := []glog.Option{}

	level, ok := ParseLevel(cfg.Level)
	if !ok {
		return nil, fmt.Errorf("logging: unsupported level %q", cfg.Level)
	}
	options = append(options, glog.WithLevel(glogLevel(level)))

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if name = strings.TrimSpace(name); name == "" {
		return wrapGlog(root), nil
	}
	return wrapGlog(root.GetLogger(name)), nil
}

func glogLevel(level Level) string {
	switch level {
	case LevelDebug:
		return glog.Debug
	case LevelWarn:
		return glog.Warn
	case LevelError:
		return glog.Error
	default:
		return glog.Info
	}
}

func wrapGlog(inner glog.Logger) Logger {
	if inner == nil {
		return Nop()
	}
	return glogAdapter{inner: inner}
}

type glogAdapter struct {
	inner glog.Logger
}

func (l glogAdapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l glogAdapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l glogAdapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l glogAdapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l glogAdapter) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrapGlog(with.WithFields(cloneFields(fields)))
	}
	return l
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return copied
}
