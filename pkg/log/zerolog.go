package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewZerologLogger writes JSON records at or above level to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(level))
	return &ZerologLogger{zl: zl, level: level}
}

// NewConsoleLogger is NewZerologLogger with zerolog's human readable output.
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	return NewZerologLogger(zerolog.ConsoleWriter{Out: w, NoColor: true}, level)
}

func zerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) {
	withFields(z.zl.Debug(), fields).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, fields ...any) {
	withFields(z.zl.Info(), fields).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, fields ...any) {
	withFields(z.zl.Warn(), fields).Msg(msg)
}

func (z *ZerologLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	withFields(ev, fields).Msg(msg)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{
		zl:    z.zl.With().Fields(pairs(fields)).Logger(),
		level: z.level,
	}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= z.level
}

// warning emits a library warning, embedding its structured fields when
// the warning knows how to marshal itself.
func (z *ZerologLogger) warning(w error) {
	ev := z.zl.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.EmbedObject(m)
	} else {
		ev = ev.Str(ErrorTypeKey, fmt.Sprintf("%T", w))
	}
	ev.Msg(w.Error())
}

func withFields(ev *zerolog.Event, fields []any) *zerolog.Event {
	if len(fields) == 0 {
		return ev
	}
	return ev.Fields(pairs(fields))
}

// pairs drops a trailing key without value and stringifies non-string keys.
func pairs(fields []any) []any {
	n := len(fields) - len(fields)%2
	out := make([]any, 0, n)
	for i := 0; i < n; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		out = append(out, key, fields[i+1])
	}
	return out
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelInfo)
)

func init() {
	errors.SetZerologWarnFunc(func(w error) {
		l := GetLogger()
		if z, ok := l.(*ZerologLogger); ok {
			z.warning(w)
			return
		}
		l.Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// GetLogger returns the package-wide logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the package-wide logger tagged with a component.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the package-wide logger and returns the previous one.
func SetLogger(l Logger) Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}
