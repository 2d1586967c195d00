package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"conexcli/internal/config"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	logFile    *os.File
	loggerMu   sync.RWMutex
)

// InitializeLogger sets up the global structured logger from configuration.
// It is safe to call multiple times; only the first call takes effect.
func InitializeLogger(cfg config.LoggingConfig) error {
	var initErr error

	loggerOnce.Do(func() {
		initErr = createLogger(cfg)
	})

	return initErr
}

// createLogger builds the slog logger according to the configuration.
func createLogger(cfg config.LoggingConfig) error {
	var writers []io.Writer

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writers = append(writers, os.Stdout)
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = file
		writers = append(writers, file)
	case "both":
		writers = append(writers, os.Stdout)
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = file
		writers = append(writers, file)
	default:
		writers = append(writers, os.Stdout)
	}

	writer := io.MultiWriter(writers...)

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	handler = &traceHandler{Handler: handler}

	loggerMu.Lock()
	logger = slog.New(handler)
	loggerMu.Unlock()

	slog.SetDefault(logger)

	return nil
}

// openLogFile opens the log file for appending, creating parent directories
// as needed.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = filepath.Join("logs", "etl.log")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return file, nil
}

// parseLogLevel converts a string level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// traceHandler wraps a slog.Handler to inject the trace ID from the context
// into every record that carries one.
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// GetLogger returns the configured logger, or the slog default when
// InitializeLogger has not been called yet.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()

	if logger == nil {
		return slog.Default()
	}
	return logger
}

// MustInitializeLogger initializes logging or panics. Intended for main.
func MustInitializeLogger(cfg config.LoggingConfig) {
	if err := InitializeLogger(cfg); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// CloseLogFile closes the log file if one was opened.
func CloseLogFile() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting clears logger state so tests can reinitialize with
// different configurations.
func ResetLoggerForTesting() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	loggerOnce = sync.Once{}
	logger = nil
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
