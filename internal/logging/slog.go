package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// stderr receives logs when no file is configured. Game output owns stdout.
var stderr io.Writer = os.Stderr

// contextKey groups the live game attributes on every record.
const contextKey = "game"

// SlogManager manages slog-based logging with optional GELF and OTel sinks.
type SlogManager struct {
	logger      *slog.Logger
	gelf        *gelf.Writer
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetupOption adds a sink or decoration to Setup.
type SetupOption func(*setupOptions)

type setupOptions struct {
	remote      io.Writer
	provider    ContextProvider
	logProvider *sdklog.LoggerProvider
}

// WithRemote sends every record as JSON to w, e.g. the GELF writer.
func WithRemote(w io.Writer) SetupOption {
	return func(o *setupOptions) { o.remote = w }
}

// WithContext adds the provider's attributes to each record under "game".
func WithContext(provider ContextProvider) SetupOption {
	return func(o *setupOptions) { o.provider = provider }
}

// WithLoggerProvider bridges every record into the OTel log pipeline.
func WithLoggerProvider(lp *sdklog.LoggerProvider) SetupOption {
	return func(o *setupOptions) { o.logProvider = lp }
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup builds the logger. Text goes to file, or to stderr when file is nil.
// Sink failures are reported as a line on the same local writer.
func (m *SlogManager) Setup(file io.Writer, level string, opts ...SetupOption) {
	var o setupOptions
	for _, opt := range opts {
		opt(&o)
	}

	hopts := handlerOptions(parseLevel(level))
	local := file
	if local == nil {
		local = stderr
	}

	handlers := []slog.Handler{slog.NewTextHandler(local, hopts)}
	if o.remote != nil {
		handlers = append(handlers, slog.NewJSONHandler(o.remote, hopts))
	}
	m.logProvider = o.logProvider
	if o.logProvider != nil {
		handlers = append(handlers, otelslog.NewHandler("tesselate",
			otelslog.WithLoggerProvider(o.logProvider),
		))
	}

	multi := NewMultiHandler(handlers...).OnError(func(err error) {
		fmt.Fprintf(local, "log sink error: %v\n", err)
	})

	var h slog.Handler = multi
	if o.provider != nil {
		h = NewContextHandler(h, contextKey, o.provider)
	}

	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", level, "otel", o.logProvider != nil)
}

// DialGraylog opens a GELF UDP writer to addr. The writer is closed by Close.
func (m *SlogManager) DialGraylog(addr string) (io.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, fmt.Errorf("graylog %s: %w", addr, err)
	}
	m.gelf = w
	return w, nil
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush pushes buffered OTel log records to the exporter.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}

// Close releases the GELF connection if one was opened. The OTel provider is
// owned and shut down by its creator.
func (m *SlogManager) Close() error {
	if m.gelf == nil {
		return nil
	}
	err := m.gelf.Close()
	m.gelf = nil
	return err
}
