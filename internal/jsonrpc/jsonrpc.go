// Package jsonrpc carries the JSON-RPC 2.0 framing used by the stdio
// transport. It is deliberately small: one generic message shape plus
// helpers to build responses.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the only JSON-RPC version this server speaks.
const ProtocolVersion = "2.0"

// ErrorCode is a JSON-RPC 2.0 error code.
type ErrorCode int

const (
	// ErrorCodeParseError indicates invalid JSON was received.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest indicates the payload is not a valid Request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound indicates the method does not exist.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams indicates invalid method parameters.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError indicates an internal server fault.
	ErrorCodeInternalError ErrorCode = -32603
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
}

// Error implements the error interface so dispatch layers can return an
// *Error and have the transport serialize it unchanged.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError builds a JSON-RPC error value.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Message is a decoded JSON-RPC message: request, notification, or response.
type Message struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method,omitempty"`
	Params         json.RawMessage `json:"params,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             *RequestID      `json:"id,omitempty"`
}

// MessageType classifies a decoded message.
type MessageType string

const (
	MessageTypeRequest      MessageType = "request"
	MessageTypeNotification MessageType = "notification"
	MessageTypeResponse     MessageType = "response"
)

// Type reports whether the message is a request, notification, or response.
func (m *Message) Type() MessageType {
	if m.Method != "" {
		if m.ID.IsNil() {
			return MessageTypeNotification
		}
		return MessageTypeRequest
	}
	return MessageTypeResponse
}

// Validate enforces JSON-RPC 2.0 structure on a decoded message.
func (m *Message) Validate() error {
	if m.JSONRPCVersion != ProtocolVersion {
		return fmt.Errorf("invalid JSON-RPC version: expected %q, got %q", ProtocolVersion, m.JSONRPCVersion)
	}
	hasResult := len(m.Result) > 0
	hasError := m.Error != nil
	if m.Method != "" {
		if hasResult || hasError {
			return fmt.Errorf("request message cannot carry result or error")
		}
		return nil
	}
	if hasResult && hasError {
		return fmt.Errorf("response message cannot carry both result and error")
	}
	if !hasResult && !hasError {
		return fmt.Errorf("message has neither method nor result nor error")
	}
	return nil
}

// NewResultResponse builds a successful response message.
func NewResultResponse(id *RequestID, result any) (*Message, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &Message{JSONRPCVersion: ProtocolVersion, Result: raw, ID: id}, nil
}

// NewErrorResponse builds an error response message.
func NewErrorResponse(id *RequestID, rpcErr *Error) *Message {
	return &Message{JSONRPCVersion: ProtocolVersion, Error: rpcErr, ID: id}
}

// NewNotification builds a notification message. Marshal failures surface as
// an error rather than a half-built message.
func NewNotification(method string, params any) (*Message, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		raw = b
	}
	return &Message{JSONRPCVersion: ProtocolVersion, Method: method, Params: raw}, nil
}
