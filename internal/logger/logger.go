// Package logger configures the process-wide logr.Logger.
//
// The terminal belongs to the dashboard, so log output never goes to stdout
// or stderr: entries are written as JSON to a rotating file, or dropped when
// no file is configured.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type loggerContextKey struct{}

const (
	TimeStampKey = "timestamp"
	MessageKey   = "message"
	VersionKey   = "version"
	GoVersionKey = "go_version"
)

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File enables JSON logging to a rotated file.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Writer, when set, receives entries instead of File.
	Writer io.Writer
}

var (
	mu        sync.RWMutex
	globalZap *zap.Logger
	global    *logr.Logger
	noop      = logr.Discard()
)

// ParseLevel converts a level name into a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Build creates a zap logger for opts without touching the global one.
// With neither Writer nor File set it returns a no-op logger.
func Build(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var sink io.Writer
	switch {
	case opts.Writer != nil:
		sink = opts.Writer
	case strings.TrimSpace(opts.File) != "":
		sink = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    max(opts.MaxSizeMB, 1),
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
	default:
		return zap.NewNop(), nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	fields := []zapcore.Field{}
	if info, ok := debug.ReadBuildInfo(); ok {
		fields = append(fields,
			zap.String(VersionKey, info.Main.Version),
			zap.String(GoVersionKey, info.GoVersion),
		)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(sink)),
		zap.NewAtomicLevelAt(lvl),
	).With(fields)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

// Setup installs the global logger built from opts and returns it.
func Setup(opts Options) (*logr.Logger, error) {
	z, err := Build(opts)
	if err != nil {
		return nil, err
	}
	l := zapr.NewLogger(z)

	mu.Lock()
	defer mu.Unlock()
	globalZap = z
	global = &l
	return global, nil
}

// Get returns the global logger, or a no-op logger before Setup.
func Get() *logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	return &noop
}

// WithLogger returns a context carrying log.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger carried by ctx, falling back to the global
// logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	return Get()
}

// Named returns the global logger with a name segment added.
func Named(name string) logr.Logger {
	return Get().WithName(name)
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	mu.RLock()
	z := globalZap
	mu.RUnlock()
	if z == nil {
		return
	}
	if err := z.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF)
}
