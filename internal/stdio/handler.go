// Package stdio implements a single-connection MCP transport over
// newline-delimited JSON-RPC on stdin/stdout. It is transport only: tool
// semantics live behind the ToolService interface, and diagnostics go to
// the injected logger, never to the shared stdout stream.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hunter-mcp/hunter-mcp-go/internal/diag"
	"github.com/hunter-mcp/hunter-mcp-go/internal/jsonrpc"
	"github.com/hunter-mcp/hunter-mcp-go/internal/logctx"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
)

// maxLineBytes bounds a single JSON-RPC frame.
const maxLineBytes = 4 * 1024 * 1024

// ToolService is the tool surface the transport exposes.
type ToolService interface {
	ListTools() []mcp.Tool
	CallTool(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Handler is a single-connection stdio transport.
type Handler struct {
	svc          ToolService
	r            io.Reader
	w            io.Writer
	log          *slog.Logger
	serverInfo   mcp.ImplementationInfo
	instructions string
	levelVar     *slog.LevelVar
	forwarder    *diag.Forwarder

	writeMu     sync.Mutex
	initialized atomic.Bool
}

// NewHandler constructs a stdio Handler with defaults and applies options.
// If a log forwarder is configured, the handler binds it to its outbound
// channel so records accepted by the forwarder surface as
// notifications/message frames.
func NewHandler(svc ToolService, opts ...Option) *Handler {
	h := &Handler{
		svc:        svc,
		log:        slog.Default(),
		serverInfo: mcp.ImplementationInfo{Name: "hunter-mcp", Version: "0.0.0"},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.forwarder != nil {
		h.forwarder.Bind(h.notifyLogMessage)
	}
	return h
}

// Serve runs the event loop until EOF on the reader or context
// cancellation. Requests are handled on their own goroutines so a tool
// call sleeping in a backoff delay never stalls an independent invocation;
// writes are serialized through a mutex.
func (h *Handler) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	br := bufio.NewReaderSize(h.reader(), 64*1024)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line, tooLong, readErr := readLine(br)
		switch {
		case tooLong:
			h.log.WarnContext(ctx, "dropping oversized message", slog.Int("limit_bytes", maxLineBytes))
			h.write(jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(jsonrpc.ErrorCodeParseError, "Parse error: message too large")))
		case len(bytes.TrimSpace(line)) > 0:
			h.dispatch(ctx, &wg, bytes.TrimSpace(line))
		}
		if readErr != nil {
			if readErr == io.EOF || ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read transport: %w", readErr)
		}
	}
}

// readLine reads up to and including the next newline. A line longer than
// maxLineBytes is consumed and discarded rather than terminating the
// connection; tooLong reports that case and the loop resumes at the next
// newline.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, ferr := br.ReadSlice('\n')
		if !tooLong {
			line = append(line, frag...)
			if len(line) > maxLineBytes {
				tooLong = true
				line = nil
			}
		}
		if ferr == bufio.ErrBufferFull {
			continue
		}
		if tooLong {
			line = nil
		}
		return line, tooLong, ferr
	}
}

func (h *Handler) dispatch(ctx context.Context, wg *sync.WaitGroup, line []byte) {
	var msg jsonrpc.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		h.log.WarnContext(ctx, "failed to parse message", slog.String("error", err.Error()))
		h.write(jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(jsonrpc.ErrorCodeParseError, "Parse error")))
		return
	}
	if err := msg.Validate(); err != nil {
		h.write(jsonrpc.NewErrorResponse(msg.ID, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidRequest, err.Error())))
		return
	}

	switch msg.Type() {
	case jsonrpc.MessageTypeRequest:
		m := msg
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.handleRequest(ctx, &m)
		}()
	case jsonrpc.MessageTypeNotification:
		h.handleNotification(ctx, &msg)
	default:
		// No outbound requests are made, so responses have no home.
		h.log.DebugContext(ctx, "ignoring unexpected response message")
	}
}

func (h *Handler) handleRequest(ctx context.Context, msg *jsonrpc.Message) {
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: msg.Method, ID: msg.ID.String()})

	switch mcp.Method(msg.Method) {
	case mcp.InitializeMethod:
		h.handleInitialize(ctx, msg)
	case mcp.PingMethod:
		h.respond(ctx, msg.ID, struct{}{})
	case mcp.ToolsListMethod:
		h.respond(ctx, msg.ID, mcp.ListToolsResult{Tools: h.svc.ListTools()})
	case mcp.ToolsCallMethod:
		if !h.initialized.Load() {
			h.log.DebugContext(ctx, "tool call before initialized notification")
		}
		h.handleToolCall(ctx, msg)
	case mcp.LoggingSetLevelMethod:
		h.handleSetLevel(ctx, msg)
	default:
		h.write(jsonrpc.NewErrorResponse(msg.ID, jsonrpc.NewError(jsonrpc.ErrorCodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", msg.Method))))
	}
}

func (h *Handler) handleNotification(ctx context.Context, msg *jsonrpc.Message) {
	switch mcp.Method(msg.Method) {
	case mcp.InitializedNotificationMethod:
		h.initialized.Store(true)
		h.log.InfoContext(ctx, "session initialized")
	case mcp.CancelledNotificationMethod:
		// In-flight work is tied to the serve context, not per-request
		// cancellation; nothing to do.
	default:
		h.log.DebugContext(ctx, "ignoring notification", slog.String("method", msg.Method))
	}
}

func (h *Handler) handleInitialize(ctx context.Context, msg *jsonrpc.Message) {
	var req mcp.InitializeRequest
	if err := json.Unmarshal(msg.Params, &req); err != nil {
		h.write(jsonrpc.NewErrorResponse(msg.ID, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "Invalid initialize params")))
		return
	}
	h.log.InfoContext(ctx, "initialize requested",
		slog.String("client", req.ClientInfo.Name),
		slog.String("client_version", req.ClientInfo.Version),
		slog.String("protocol_version", req.ProtocolVersion),
	)
	h.respond(ctx, msg.ID, mcp.InitializeResult{
		ProtocolVersion: mcp.LatestProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Logging: &struct{}{},
			Tools: &struct {
				ListChanged bool `json:"listChanged"`
			}{},
		},
		ServerInfo:   h.serverInfo,
		Instructions: h.instructions,
	})
}

func (h *Handler) handleToolCall(ctx context.Context, msg *jsonrpc.Message) {
	var req mcp.CallToolRequest
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &req); err != nil {
			h.write(jsonrpc.NewErrorResponse(msg.ID, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "Invalid tool call params")))
			return
		}
	}

	res, err := h.svc.CallTool(ctx, &req)
	if err != nil {
		rpcErr, ok := err.(*jsonrpc.Error)
		if !ok {
			rpcErr = jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, err.Error())
		}
		h.write(jsonrpc.NewErrorResponse(msg.ID, rpcErr))
		return
	}
	h.respond(ctx, msg.ID, res)
}

func (h *Handler) handleSetLevel(ctx context.Context, msg *jsonrpc.Message) {
	var req mcp.SetLevelRequest
	if err := json.Unmarshal(msg.Params, &req); err != nil || !mcp.IsValidLoggingLevel(req.Level) {
		h.write(jsonrpc.NewErrorResponse(msg.ID, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "Invalid logging level")))
		return
	}
	if h.forwarder != nil {
		h.forwarder.SetLevel(req.Level.SlogLevel())
	}
	if h.levelVar != nil {
		h.levelVar.Set(req.Level.SlogLevel())
	}
	h.log.InfoContext(ctx, "log level adjusted", slog.String("level", string(req.Level)))
	h.respond(ctx, msg.ID, struct{}{})
}

// notifyLogMessage is the forwarder's outbound path. It serializes a
// protocol log notification onto the shared stdout stream.
func (h *Handler) notifyLogMessage(_ context.Context, params mcp.LoggingMessageParams) error {
	n, err := jsonrpc.NewNotification(string(mcp.LoggingMessageNotificationMethod), params)
	if err != nil {
		return err
	}
	h.write(n)
	return nil
}

func (h *Handler) respond(ctx context.Context, id *jsonrpc.RequestID, result any) {
	resp, err := jsonrpc.NewResultResponse(id, result)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to marshal result", slog.String("error", err.Error()))
		h.write(jsonrpc.NewErrorResponse(id, jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, "Internal error")))
		return
	}
	h.write(resp)
}

func (h *Handler) write(msg *jsonrpc.Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal message", slog.String("error", err.Error()))
		return
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_, _ = h.writer().Write(append(b, '\n'))
}

func (h *Handler) reader() io.Reader {
	if h.r != nil {
		return h.r
	}
	return defaultReader()
}

func (h *Handler) writer() io.Writer {
	if h.w != nil {
		return h.w
	}
	return defaultWriter()
}
