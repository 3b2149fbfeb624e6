package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Handler decodes raw JSON arguments, runs a command and returns its result
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher routes named invocations to handlers
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
	metrics  *Metrics
}

// NewDispatcher creates an empty dispatch table
func NewDispatcher(logger *slog.Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   logger,
		metrics:  metrics,
	}
}

// NewCommandDispatcher builds the dispatch table for the three bridge commands
func NewCommandDispatcher(commands *Commands, logger *slog.Logger, metrics *Metrics) *Dispatcher {
	d := NewDispatcher(logger, metrics)
	// names are distinct constants, registration cannot collide
	_ = d.Register(CommandReportHistory, reportHistoryHandler(commands))
	_ = d.Register(CommandGetCredentials, getCredentialsHandler(commands))
	_ = d.Register(CommandSaveCredential, saveCredentialHandler(commands))
	return d
}

// Register adds a handler under name
func (d *Dispatcher) Register(name string, handler Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[name]; exists {
		return fmt.Errorf("handler already registered for command %s", name)
	}
	d.handlers[name] = handler
	return nil
}

// Commands lists the registered command names in order
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command with JSON arguments and returns the JSON
// encoded result. Errors are always *Error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args []byte) ([]byte, error) {
	d.mu.RLock()
	handler, exists := d.handlers[name]
	d.mu.RUnlock()

	invocationID := uuid.NewString()
	if !exists {
		d.logger.Warn("Unknown command", "command", name, "invocation", invocationID)
		d.metrics.observe(unknownCommandLabel, outcomeUnknown)
		return nil, newError(fmt.Sprintf("%s: %s", ErrUnknownCommand, name), ErrUnknownCommand)
	}

	if len(args) == 0 {
		args = []byte("{}")
	}

	result, err := handler(ctx, args)
	if err != nil {
		d.logger.Error("Command failed", "command", name, "invocation", invocationID, "error", err)
		d.metrics.observe(name, outcomeError)
		var bridgeErr *Error
		if errors.As(err, &bridgeErr) {
			return nil, bridgeErr
		}
		return nil, newError(err.Error(), err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		d.metrics.observe(name, outcomeError)
		return nil, newError(fmt.Sprintf("encode result of %s: %v", name, err), err)
	}

	d.logger.Debug("Command succeeded", "command", name, "invocation", invocationID)
	d.metrics.observe(name, outcomeOK)
	return out, nil
}

func decodeArgs(name string, args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return newError(fmt.Sprintf("%s for %s: %v", ErrInvalidArguments, name, err), ErrInvalidArguments)
	}
	return nil
}

func reportHistoryHandler(c *Commands) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			Entry *HistoryEntry `json:"entry"`
		}
		if err := decodeArgs(CommandReportHistory, args, &in); err != nil {
			return nil, err
		}
		if in.Entry == nil {
			return nil, newError(fmt.Sprintf("%s for %s: missing entry", ErrInvalidArguments, CommandReportHistory), ErrInvalidArguments)
		}
		return nil, c.ReportHistory(ctx, *in.Entry)
	}
}

func getCredentialsHandler(c *Commands) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			Domain string `json:"domain"`
		}
		if err := decodeArgs(CommandGetCredentials, args, &in); err != nil {
			return nil, err
		}
		return c.GetCredentials(ctx, in.Domain)
	}
}

func saveCredentialHandler(c *Commands) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			Credential *Credential `json:"credential"`
		}
		if err := decodeArgs(CommandSaveCredential, args, &in); err != nil {
			return nil, err
		}
		if in.Credential == nil {
			return nil, newError(fmt.Sprintf("%s for %s: missing credential", ErrInvalidArguments, CommandSaveCredential), ErrInvalidArguments)
		}
		return nil, c.SaveCredential(ctx, *in.Credential)
	}
}

// unknownCommandLabel stands in for names missing from the table so the
// command label set stays bounded
const unknownCommandLabel = "unknown"

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeUnknown = "unknown"
)

// Metrics counts command invocations by outcome
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
}

// NewMetrics creates the bridge metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	commands := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "commands_total",
			Help:      "Total number of bridge command invocations",
		},
		[]string{"command", "outcome"},
	)
	registry.MustRegister(commands)

	return &Metrics{
		registry: registry,
		commands: commands,
	}
}

// Registry exposes the registry for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(command, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}
