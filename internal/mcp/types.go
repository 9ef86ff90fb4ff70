// Package mcp holds the Model Context Protocol wire types this server
// speaks: the initialize handshake, tool listing and invocation, and the
// logging capability. Anything the protocol defines beyond that surface is
// intentionally absent.
package mcp

import "log/slog"

// LatestProtocolVersion is the protocol revision this server negotiates.
const LatestProtocolVersion = "2025-06-18"

// Method is an MCP method identifier used in JSON-RPC messages.
type Method string

const (
	InitializeMethod              Method = "initialize"
	InitializedNotificationMethod Method = "notifications/initialized"

	ToolsListMethod Method = "tools/list"
	ToolsCallMethod Method = "tools/call"

	LoggingSetLevelMethod            Method = "logging/setLevel"
	LoggingMessageNotificationMethod Method = "notifications/message"

	PingMethod                  Method = "ping"
	CancelledNotificationMethod Method = "notifications/cancelled"
)

// LoggingLevel represents structured log severity, per the protocol's
// syslog-derived enumeration.
type LoggingLevel string

const (
	LoggingLevelDebug     LoggingLevel = "debug"
	LoggingLevelInfo      LoggingLevel = "info"
	LoggingLevelNotice    LoggingLevel = "notice"
	LoggingLevelWarning   LoggingLevel = "warning"
	LoggingLevelError     LoggingLevel = "error"
	LoggingLevelCritical  LoggingLevel = "critical"
	LoggingLevelAlert     LoggingLevel = "alert"
	LoggingLevelEmergency LoggingLevel = "emergency"
)

// IsValidLoggingLevel reports whether level is one of the protocol-defined
// severities.
func IsValidLoggingLevel(level LoggingLevel) bool {
	switch level {
	case LoggingLevelDebug, LoggingLevelInfo, LoggingLevelNotice,
		LoggingLevelWarning, LoggingLevelError, LoggingLevelCritical,
		LoggingLevelAlert, LoggingLevelEmergency:
		return true
	default:
		return false
	}
}

// SlogLevel maps a protocol logging level onto the closest slog level.
// Notice collapses to info; critical and above collapse to error.
func (l LoggingLevel) SlogLevel() slog.Level {
	switch l {
	case LoggingLevelDebug:
		return slog.LevelDebug
	case LoggingLevelInfo, LoggingLevelNotice:
		return slog.LevelInfo
	case LoggingLevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ImplementationInfo describes an implementation name and version.
type ImplementationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Title   string `json:"title,omitzero"`
}

// ClientCapabilities advertises client features. Only presence matters to
// this server, so the nested shapes stay anonymous.
type ClientCapabilities struct {
	Roots *struct {
		ListChanged bool `json:"listChanged"`
	} `json:"roots,omitempty"`
	Sampling    *struct{} `json:"sampling,omitempty"`
	Elicitation *struct{} `json:"elicitation,omitempty"`
}

// ServerCapabilities advertises server features.
type ServerCapabilities struct {
	Logging *struct{} `json:"logging,omitempty"`
	Tools   *struct {
		ListChanged bool `json:"listChanged"`
	} `json:"tools,omitempty"`
}

// ContentBlock is a typed content part of a tool result. This server only
// ever emits text blocks.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitzero"`
}

// TextContent builds a text content block.
func TextContent(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ToolInputSchema is a JSON-schema-like description of tool input.
type ToolInputSchema struct {
	Type                 string                    `json:"type"`
	Properties           map[string]SchemaProperty `json:"properties,omitempty"`
	Required             []string                  `json:"required,omitempty"`
	AdditionalProperties bool                      `json:"additionalProperties,omitzero"`
}

// SchemaProperty is a simplified schema node used in tool input schemas.
type SchemaProperty struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitzero"`
}
