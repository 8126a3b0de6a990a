// Package logging configures the process-wide slog logger and hands out
// component-tagged child loggers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Field name constants for structured log attributes.
const (
	KeyComponent   = "component"
	KeyCommandID   = "commandId"
	KeyCommandType = "commandType"
	KeyDurationMs  = "durationMs"
	KeyError       = "error"
)

// deferredHandler lets package-level loggers created before Init() pick up
// the configured handler once Init runs. All loggers share one root state;
// attrs and groups accumulated via With() replay onto whatever handler is
// current at emit time.
type deferredHandler struct {
	root   *atomic.Value // holds handlerRef
	attrs  []slog.Attr
	groups []string
}

// handlerRef boxes the handler so atomic.Value always stores one concrete
// type regardless of which slog handler is configured.
type handlerRef struct {
	h slog.Handler
}

func newDeferredHandler(h slog.Handler) *deferredHandler {
	root := &atomic.Value{}
	root.Store(handlerRef{h: h})
	return &deferredHandler{root: root}
}

func (h *deferredHandler) resolve() slog.Handler {
	handler := h.root.Load().(handlerRef).h
	for _, g := range h.groups {
		handler = handler.WithGroup(g)
	}
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	return handler
}

func (h *deferredHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *deferredHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.resolve().Handle(ctx, record)
}

func (h *deferredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &deferredHandler{root: h.root, attrs: merged, groups: h.groups}
}

func (h *deferredHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &deferredHandler{root: h.root, attrs: h.attrs, groups: groups}
}

var (
	rootHandler   = newDeferredHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defaultLogger = slog.New(rootHandler)
)

func init() {
	slog.SetDefault(defaultLogger)
}

// Init installs the configured handler. Call once after config is loaded.
// format is "json" or "text" (default "text"); level is one of "debug",
// "info", "warn", "error" (default "info"); output nil means os.Stdout.
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	rootHandler.root.Store(handlerRef{h: handler})
	slog.SetDefault(defaultLogger)
}

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return defaultLogger.With(slog.String(KeyComponent, component))
}

// WithCommand returns a child logger carrying command correlation fields.
func WithCommand(logger *slog.Logger, cmdID, cmdType string) *slog.Logger {
	return logger.With(
		slog.String(KeyCommandID, cmdID),
		slog.String(KeyCommandType, cmdType),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
