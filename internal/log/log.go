package log

import (
	"fmt"
	"io"
	stdlog "log"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Logger writes leveled key=value lines. It is passed explicitly to the
// components that log (pipeline, store, feed) rather than held as process
// state. A nil *Logger is valid and discards everything, which keeps
// call sites and tests free of guards.
type Logger struct {
	out *stdlog.Logger
	min Level
}

// New returns a Logger writing to w with the given minimum level.
func New(w io.Writer, min Level) *Logger {
	if min == "" {
		min = LevelInfo
	}
	return &Logger{
		out: stdlog.New(w, "", 0),
		min: min,
	}
}

func (l *Logger) Debug(msg string, kv ...any) {
	l.log(LevelDebug, msg, kv...)
}

func (l *Logger) Info(msg string, kv ...any) {
	l.log(LevelInfo, msg, kv...)
}

func (l *Logger) Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	l.log(LevelError, msg, extended...)
}

func (l *Logger) log(level Level, msg string, kv ...any) {
	if l == nil || l.out == nil {
		return
	}
	if !l.enabled(level) {
		return
	}

	ts := time.Now().Format(time.RFC3339Nano)

	// Line format:
	// 2025-01-01T00:00:00Z [LEVEL] msg key=value ...
	line := ts + " [" + string(level) + "] " + msg
	if len(kv) > 0 {
		line += formatKVs(kv...)
	}

	l.out.Println(line)
}

func (l *Logger) enabled(level Level) bool {
	switch l.min {
	case LevelDebug:
		return true
	case LevelInfo:
		return level == LevelInfo || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

func formatKVs(kv ...any) string {
	out := ""
	// Expect kv as pairs: key, value, key, value, ...
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out += " " + key + "=" + fmt.Sprint(kv[i+1])
	}
	// If odd number of args, last one is ignored.
	return out
}
