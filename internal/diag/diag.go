// Package diag routes diagnostic events based on the transport kind. A
// line-oriented transport shares stdout with protocol traffic, so its
// diagnostics go to an isolated side channel (stderr) and are additionally
// mirrored as notifications/message once the client opts in via
// logging/setLevel; transports that own their stream log through the
// protocol facility directly. The routing decision is made once, at
// construction.
package diag

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/hunter-mcp/hunter-mcp-go/internal/logctx"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
)

// Kind identifies the primary communication channel of the serving
// transport.
type Kind string

const (
	// KindStdio is a newline-delimited JSON-RPC stream over stdin/stdout.
	KindStdio Kind = "stdio"
	// KindStreamable is a transport that does not share its stream with
	// diagnostics, e.g. streamable HTTP.
	KindStreamable Kind = "streamable-http"
)

// NotifyFunc delivers a protocol log notification to the connected client.
type NotifyFunc func(ctx context.Context, params mcp.LoggingMessageParams) error

// Forwarder is the late-bound bridge between the logger and the transport
// that owns the protocol channel. The logger is built before the transport
// exists, so the transport binds its notify path at construction and
// records the client-requested level when logging/setLevel arrives.
type Forwarder struct {
	mu       sync.RWMutex
	notify   NotifyFunc
	level    slog.Level
	hasLevel bool
}

// NewForwarder returns an inert Forwarder. It delivers nothing until a
// transport binds a notify path.
func NewForwarder() *Forwarder {
	return &Forwarder{}
}

// Bind attaches the transport's notify path.
func (f *Forwarder) Bind(notify NotifyFunc) {
	f.mu.Lock()
	f.notify = notify
	f.mu.Unlock()
}

// SetLevel records the client-requested minimum severity.
func (f *Forwarder) SetLevel(level slog.Level) {
	f.mu.Lock()
	f.level = level
	f.hasLevel = true
	f.mu.Unlock()
}

// snapshot returns the bound notify path and whether a record at l should
// be delivered. requireOptIn marks routes that stay silent until the
// client has set a level; fallback gates routes that deliver by default.
func (f *Forwarder) snapshot(l slog.Level, requireOptIn bool, fallback slog.Leveler) (NotifyFunc, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.notify == nil {
		return nil, false
	}
	if f.hasLevel {
		return f.notify, l >= f.level
	}
	if requireOptIn {
		return nil, false
	}
	min := slog.LevelInfo
	if fallback != nil {
		min = fallback.Level()
	}
	return f.notify, l >= min
}

// New builds the process logger for the given transport kind. side is the
// isolated side channel used for stdio transports. fw carries records to
// the protocol channel: for stdio it mirrors records once the client opts
// in, for stream-owning transports it is the only route. level gates the
// side channel and may be a *slog.LevelVar adjusted at runtime.
func New(kind Kind, side io.Writer, fw *Forwarder, level slog.Leveler) *slog.Logger {
	switch kind {
	case KindStdio:
		stream := slog.NewJSONHandler(side, &slog.HandlerOptions{Level: level})
		if fw == nil {
			return slog.New(logctx.Handler{Handler: stream})
		}
		proto := &protocolHandler{fw: fw, requireOptIn: true}
		return slog.New(logctx.Handler{Handler: fanoutHandler{stream, proto}})
	default:
		return slog.New(logctx.Handler{Handler: &protocolHandler{fw: fw, fallback: level}})
	}
}

// fanoutHandler delivers each record to every child that wants it.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// protocolHandler adapts slog records into MCP log notifications.
type protocolHandler struct {
	fw           *Forwarder
	requireOptIn bool
	fallback     slog.Leveler
	attrs        []slog.Attr
	group        string
}

func (h *protocolHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.fw == nil {
		return false
	}
	_, ok := h.fw.snapshot(level, h.requireOptIn, h.fallback)
	return ok
}

func (h *protocolHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.fw == nil {
		return nil
	}
	notify, ok := h.fw.snapshot(r.Level, h.requireOptIn, h.fallback)
	if !ok {
		return nil
	}
	data := map[string]any{"msg": r.Message}
	for _, a := range h.attrs {
		addAttr(data, h.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(data, h.group, a)
		return true
	})
	return notify(ctx, mcp.LoggingMessageParams{
		Level: levelFromSlog(r.Level),
		Data:  data,
	})
}

func (h *protocolHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *protocolHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if name != "" {
		if nh.group != "" {
			nh.group = nh.group + "." + name
		} else {
			nh.group = name
		}
	}
	return &nh
}

func addAttr(data map[string]any, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		sub := make(map[string]any)
		for _, ga := range v.Group() {
			addAttr(sub, "", ga)
		}
		data[key] = sub
		return
	}
	data[key] = v.Any()
}

func levelFromSlog(level slog.Level) mcp.LoggingLevel {
	switch {
	case level < slog.LevelInfo:
		return mcp.LoggingLevelDebug
	case level < slog.LevelWarn:
		return mcp.LoggingLevelInfo
	case level < slog.LevelError:
		return mcp.LoggingLevelWarning
	default:
		return mcp.LoggingLevelError
	}
}
