// Package logctx enriches slog records with request-scoped data carried in
// the context: the JSON-RPC message being served and the tool call in
// flight.
package logctx

import (
	"context"
	"log/slog"
)

// Handler wraps another slog.Handler and folds context-carried groups into
// every record.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if msg, ok := ctx.Value(rpcMsgKey{}).(*RPCMessage); ok {
		r.AddAttrs(slog.Group("rpc",
			slog.String("method", msg.Method),
			slog.String("id", msg.ID),
		))
	}

	if td, ok := ctx.Value(toolCallKey{}).(*ToolCallData); ok {
		r.AddAttrs(slog.Group("tool",
			slog.String("name", td.ToolName),
			slog.String("invocation_id", td.InvocationID),
		))
	}

	return h.Handler.Handle(ctx, r)
}

type rpcMsgKey struct{}

// RPCMessage identifies the JSON-RPC message being served.
type RPCMessage struct {
	Method string
	ID     string
}

// WithRPCMessage attaches JSON-RPC message data to the context.
func WithRPCMessage(ctx context.Context, msg *RPCMessage) context.Context {
	return context.WithValue(ctx, rpcMsgKey{}, msg)
}

type toolCallKey struct{}

// ToolCallData identifies the tool invocation in flight.
type ToolCallData struct {
	ToolName     string
	InvocationID string
}

// WithToolCallData attaches tool call data to the context.
func WithToolCallData(ctx context.Context, data *ToolCallData) context.Context {
	return context.WithValue(ctx, toolCallKey{}, data)
}
