// Package toolsvc implements the tool surface of the server: the fixed
// registry of operation descriptors, generic argument validation, and the
// dispatcher that maps validated calls onto the Hunter client and wraps
// every outcome in the uniform result envelope.
package toolsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hunter-mcp/hunter-mcp-go/internal/hunter"
	"github.com/hunter-mcp/hunter-mcp-go/internal/jsonrpc"
	"github.com/hunter-mcp/hunter-mcp-go/internal/logctx"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
	"github.com/hunter-mcp/hunter-mcp-go/internal/retry"
)

// Service routes named tool calls to Hunter API operations.
type Service struct {
	client *hunter.Client
	policy retry.Policy
	log    *slog.Logger
	ops    []operation
	byName map[string]*operation
}

// New builds the service with its fixed operation set.
func New(client *hunter.Client, policy retry.Policy, log *slog.Logger) *Service {
	s := &Service{
		client: client,
		policy: policy,
		log:    log,
		ops:    operations(),
		byName: make(map[string]*operation),
	}
	for i := range s.ops {
		s.byName[s.ops[i].tool.Name] = &s.ops[i]
	}
	return s
}

// ListTools returns the advertised tool descriptors in registration order.
func (s *Service) ListTools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(s.ops))
	for _, op := range s.ops {
		tools = append(tools, op.tool)
	}
	return tools
}

// CallTool handles one invocation end to end. It returns a result envelope
// for every business outcome, including unknown tool names and remote
// failures; the only error returns are the protocol-level rejections for a
// missing argument bag and for validation failures on a known tool.
func (s *Service) CallTool(ctx context.Context, req *mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
	started := time.Now()
	ctx = logctx.WithToolCallData(ctx, &logctx.ToolCallData{
		ToolName:     req.Name,
		InvocationID: uuid.NewString(),
	})
	s.log.InfoContext(ctx, "tool call received")

	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "tool call panicked",
				slog.Any("panic", r),
				slog.String("arguments", string(req.Arguments)),
				slog.Duration("duration", time.Since(started)),
			)
			res = errorResult(fmt.Sprintf("Internal error: %v", r))
			err = nil
		}
		s.log.InfoContext(ctx, "tool call completed",
			slog.Duration("duration", time.Since(started)),
			slog.Bool("is_error", err != nil || (res != nil && res.IsError)),
		)
	}()

	if len(req.Arguments) == 0 {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams, "Missing arguments")
	}

	op, ok := s.byName[req.Name]
	if !ok {
		// Unknown tool names stay recoverable for the caller.
		return errorResult(fmt.Sprintf("Unknown tool: %s", req.Name)), nil
	}

	var args map[string]any
	if err := json.Unmarshal(req.Arguments, &args); err != nil || args == nil {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams,
			fmt.Sprintf("Invalid arguments for %s: arguments must be an object", op.tool.Name))
	}
	if err := op.spec.validate(args); err != nil {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInvalidParams,
			fmt.Sprintf("Invalid arguments for %s: %v", op.tool.Name, err))
	}

	params := op.spec.queryParams(args)
	var body json.RawMessage
	callErr := retry.Do(ctx, s.log, s.policy, op.tool.Name, func(ctx context.Context) error {
		b, err := op.invoke(ctx, s.client, params)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if callErr != nil {
		s.log.WarnContext(ctx, "tool call failed", slog.String("error", callErr.Error()))
		return errorResult(hunter.Message(callErr)), nil
	}

	return successResult(body), nil
}

// successResult wraps a raw JSON body, pretty-printed without reordering or
// re-encoding any field.
func successResult(body json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	text := string(body)
	if err := json.Indent(&buf, body, "", "  "); err == nil {
		text = buf.String()
	}
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{mcp.TextContent(text)},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{mcp.TextContent(msg)},
		IsError: true,
	}
}
