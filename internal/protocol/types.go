// Package protocol implements the dual-dialect JSON-RPC binding for the
// agent: the standard message/send family with kind-tagged parts and the
// fabric variant tasks/send family with type-tagged parts. Both are
// normalized into one execution path.
package protocol

import (
	"encoding/json"

	"github.com/google/uuid"
)

// JSON-RPC error codes surfaced to the transport.
const (
	codeParseError      = -32700
	codeMethodNotFound  = -32601
	codeInternalError   = -32603
	codeUnauthenticated = -32001
)

// Task states reported on the wire. The task store is not authoritative, so
// these are the only two states a caller ever sees.
const (
	StateCompleted = "completed"
	StateCanceled  = "canceled"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Part is one unit of message content. The fabric dialect tags text parts
// with "type", the standard dialect with "kind"; both are accepted. Root
// carries the variant part envelope some SDKs emit.
type Part struct {
	Type string `json:"type,omitempty"`
	Kind string `json:"kind,omitempty"`
	Text string `json:"text,omitempty"`
	Root *Part  `json:"root,omitempty"`
}

// IsText reports whether the part is text-tagged in either dialect.
func (p Part) IsText() bool {
	return p.Type == "text" || p.Kind == "text"
}

// Message is an ordered sequence of parts with a role.
type Message struct {
	Role      string `json:"role,omitempty"`
	Parts     []Part `json:"parts,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

// NewAgentTextMessage builds an agent-role message holding one text part.
func NewAgentTextMessage(text string) *Message {
	return &Message{
		Role:      "agent",
		MessageID: uuid.NewString(),
		Parts:     []Part{{Kind: "text", Text: text}},
	}
}

// TaskSendParams is the fabric dialect's tasks/send parameter shape.
type TaskSendParams struct {
	ID        string  `json:"id"`
	SessionID string  `json:"sessionId"`
	Message   Message `json:"message"`
}

// MessageSendParams is the standard dialect's message/send parameter shape.
type MessageSendParams struct {
	Message   Message `json:"message"`
	ContextID string  `json:"contextId"`
}

// TaskIDParams carries the task id for tasks/get and tasks/cancel.
type TaskIDParams struct {
	ID string `json:"id"`
}

// TaskStatus is the wire-level task state.
type TaskStatus struct {
	State string `json:"state"`
}

// Artifact wraps output parts for callers that read artifacts instead of
// the response message.
type Artifact struct {
	Parts []Part `json:"parts"`
}

// TaskResult is the tasks/send result shape. Message and Artifacts carry
// the same parts; fabric callers read either field.
type TaskResult struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId,omitempty"`
	Status    TaskStatus `json:"status"`
	Message   *Message   `json:"message,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}
