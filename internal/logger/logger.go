package logger

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging contract used across the reader. Every entry
// carries a human message, a stable event name, and an optional payload map.
type Logger interface {
	DebugObj(msg, event string, obj map[string]any)
	InfoObj(msg, event string, obj map[string]any)
	WarnObj(msg, event string, obj map[string]any)
	ErrorObj(msg, event string, obj map[string]any)
}

// NopLogger discards all entries. Useful as a nil-safe default.
type NopLogger struct{}

func (NopLogger) DebugObj(msg, event string, obj map[string]any) {}
func (NopLogger) InfoObj(msg, event string, obj map[string]any)  {}
func (NopLogger) WarnObj(msg, event string, obj map[string]any)  {}
func (NopLogger) ErrorObj(msg, event string, obj map[string]any) {}

// zapLogger adapts a zap core to the Logger contract.
type zapLogger struct {
	z *zap.Logger
}

// New builds a production JSON logger at the given level. Level accepts the
// usual zap names (debug, info, warn, error); empty defaults to info.
func New(level string) (Logger, error) {
	lvl := zapcore.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &zapLogger{z: z}, nil
}

// FromZap wraps an existing zap logger. Intended for tests that observe output.
func FromZap(z *zap.Logger) Logger {
	if z == nil {
		return NopLogger{}
	}
	return &zapLogger{z: z}
}

func (l *zapLogger) DebugObj(msg, event string, obj map[string]any) {
	l.z.Debug(msg, fields(event, obj)...)
}

func (l *zapLogger) InfoObj(msg, event string, obj map[string]any) {
	l.z.Info(msg, fields(event, obj)...)
}

func (l *zapLogger) WarnObj(msg, event string, obj map[string]any) {
	l.z.Warn(msg, fields(event, obj)...)
}

func (l *zapLogger) ErrorObj(msg, event string, obj map[string]any) {
	l.z.Error(msg, fields(event, obj)...)
}

// fields flattens the payload into zap fields with the event name first.
// Payload keys are sorted so entries are stable across runs.
func fields(event string, obj map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(obj)+1)
	out = append(out, zap.String("event", event))

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		out = append(out, zap.Any(k, obj[k]))
	}
	return out
}
