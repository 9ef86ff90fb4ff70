package stdio

import (
	"io"
	"log/slog"
	"os"

	"github.com/hunter-mcp/hunter-mcp-go/internal/diag"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
)

func defaultReader() io.Reader { return os.Stdin }
func defaultWriter() io.Writer { return os.Stdout }

// Option customizes a Handler.
type Option func(*Handler)

// WithIO sets the reader and writer for the handler.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(h *Handler) {
		if r != nil {
			h.r = r
		}
		if w != nil {
			h.w = w
		}
	}
}

// WithLogger overrides the logger. The logger must never write to the
// handler's output stream.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithServerInfo sets the implementation info advertised at initialize.
func WithServerInfo(info mcp.ImplementationInfo) Option {
	return func(h *Handler) {
		h.serverInfo = info
	}
}

// WithInstructions sets the instructions string returned at initialize.
func WithInstructions(instructions string) Option {
	return func(h *Handler) {
		h.instructions = instructions
	}
}

// WithLogLevelVar wires the slog.LevelVar adjusted by logging/setLevel
// requests.
func WithLogLevelVar(lv *slog.LevelVar) Option {
	return func(h *Handler) {
		h.levelVar = lv
	}
}

// WithLogForwarder wires the forwarder that mirrors diagnostic records as
// notifications/message frames once the client has set a logging level.
func WithLogForwarder(fw *diag.Forwarder) Option {
	return func(h *Handler) {
		h.forwarder = fw
	}
}
