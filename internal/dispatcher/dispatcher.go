package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrUnknownCommand is returned by Dispatch for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrArgCount is returned when a command gets fewer or more arguments than it accepts.
	ErrArgCount = errors.New("wrong number of arguments")
)

// Command is one parsed line of input.
type Command struct {
	Name      string
	Args      []string
	Timestamp time.Time
}

// Parse splits a line into a command name and arguments. Names are
// case-insensitive. ok is false for a blank line.
func Parse(line string) (c Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		Name:      strings.ToLower(fields[0]),
		Args:      fields[1:],
		Timestamp: time.Now(),
	}, true
}

// HandlerFunc processes a command and returns a result.
type HandlerFunc func(Command) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged  bool
	minArgs int
	maxArgs int
	usage   string
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Args bounds the number of arguments. A negative max means unbounded.
func Args(min, max int) Option {
	return func(c *config) {
		c.minArgs = min
		c.maxArgs = max
	}
}

// Usage sets the help line shown for the command.
func Usage(text string) Option {
	return func(c *config) {
		c.usage = text
	}
}

type entry struct {
	handler HandlerFunc
	usage   string
}

// Dispatcher routes commands to registered handlers.
type Dispatcher struct {
	handlers map[string]entry
	logger   Logger

	processed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	return NewWithMeter(logger, meter())
}

// NewWithMeter is New with an explicit meter.
func NewWithMeter(logger Logger, m metric.Meter) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]entry),
		logger:   logger,
	}

	var err error

	d.processed, err = m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Total commands handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"dispatcher.commands.failed",
		metric.WithDescription("Commands that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	d.duration, err = m.Float64Histogram(
		"dispatcher.command.duration",
		metric.WithDescription("Command handling time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given command with optional configuration.
// Registering a name twice replaces the earlier handler.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &config{maxArgs: -1}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := d.withArgCheck(command, cfg.minArgs, cfg.maxArgs, h)

	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[strings.ToLower(command)] = entry{handler: handler, usage: cfg.usage}
}

// Dispatch routes a command to its registered handler.
func (d *Dispatcher) Dispatch(c Command) (any, error) {
	e, ok := d.handlers[c.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, c.Name)
	}

	start := time.Now()
	result, err := e.handler(c)

	cmdAttr := metric.WithAttributes(attribute.String("command", c.Name))
	d.processed.Add(context.Background(), 1, cmdAttr)
	d.duration.Record(context.Background(), float64(time.Since(start).Microseconds())/1000, cmdAttr)
	if err != nil {
		d.failed.Add(context.Background(), 1, cmdAttr)
	}
	return result, err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[strings.ToLower(command)]
	return ok
}

// Commands returns the registered names in sorted order.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the help line registered for command, or the bare name.
func (d *Dispatcher) Usage(command string) string {
	e, ok := d.handlers[strings.ToLower(command)]
	if !ok || e.usage == "" {
		return command
	}
	return e.usage
}

func (d *Dispatcher) withArgCheck(command string, min, max int, h HandlerFunc) HandlerFunc {
	return func(c Command) (any, error) {
		n := len(c.Args)
		if n < min || (max >= 0 && n > max) {
			return nil, fmt.Errorf("%w for %s: got %d", ErrArgCount, command, n)
		}
		return h(c)
	}
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(c Command) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command, "args", len(c.Args))

		result, err := h(c)

		if err != nil {
			d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
