package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName names the log file written under a log directory.
const DefaultFileName = "markdown_notion.log"

// Rotation limits of log files.
const (
	maxFileSizeMB  = 10
	maxFileAgeDays = 7
)

// FileOptions configures a writer backed logger.
type FileOptions struct {
	MinLevel Level
	TimeFunc func() time.Time
}

// NewFile returns a logger recording entries at or above MinLevel into
// name under dir, rotated every 10 MB and kept, compressed, for a week. The
// returned closer releases the file.
func NewFile(dir, name string, opts FileOptions) (Logger, io.Closer) {
	if name == "" {
		name = DefaultFileName
	}
	out := &lumberjack.Logger{
		Filename: filepath.Join(dir, name),
		MaxSize:  maxFileSizeMB,
		MaxAge:   maxFileAgeDays,
		Compress: true,
	}
	return NewWriter(out, opts), out
}

// NewWriter returns a logger writing one line per entry into w:
// an RFC3339 timestamp, the level, the message, and sorted key=value fields.
func NewWriter(w io.Writer, opts FileOptions) Logger {
	clock := opts.TimeFunc
	if clock == nil {
		clock = time.Now
	}
	return &writerLogger{
		sink: &writerSink{w: w, clock: clock, minLevel: opts.MinLevel},
	}
}

type writerSink struct {
	mu       sync.Mutex
	w        io.Writer
	clock    func() time.Time
	minLevel Level
}

type writerLogger struct {
	sink   *writerSink
	fields map[string]any
}

func (l *writerLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *writerLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *writerLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *writerLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }

func (l *writerLogger) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &writerLogger{sink: l.sink, fields: merged}
}

func (l *writerLogger) log(level Level, msg string, args []any) {
	if level < l.sink.minLevel {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	argsToFields(fields, args)
	entry := formatEntry(l.sink.clock().UTC(), level.String(), msg, fields)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	// log writes are best effort
	_, _ = io.WriteString(l.sink.w, entry+"\n")
}

func argsToFields(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields[fmt.Sprintf("field_%d", i/2)] = args[i]
			break
		}
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		} else {
			fields[fmt.Sprintf("field_%d", i/2)] = args[i+1]
		}
	}
}

func formatEntry(ts time.Time, level, msg string, fields map[string]any) string {
	var sb strings.Builder
	sb.Grow(64 + len(msg) + len(fields)*16)
	sb.WriteString(ts.Format(time.RFC3339Nano))
	sb.WriteByte(' ')
	sb.WriteString(level)
	sb.WriteByte(' ')
	sb.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(formatValue(fields[key]))
	}
	return sb.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(v)
	case time.Time:
		return quoteIfNeeded(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return v.String()
	case error:
		return quoteIfNeeded(v.Error())
	case fmt.Stringer:
		return quoteIfNeeded(v.String())
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return quoteIfNeeded(fmt.Sprint(v))
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	for _, r := range value {
		if r <= 0x20 || r == '=' || r == '"' {
			return strconv.Quote(value)
		}
	}
	return value
}
