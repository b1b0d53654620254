package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stratus-agent/stratus/internal/telemetry"
)

var tracer = otel.Tracer("stratus/protocol")

// Executor runs one user turn against a request context and event queue.
// Implementations must not leak errors for skill-level failures; those are
// converted to user-facing text. A returned error means the turn itself
// could not run and surfaces as a JSON-RPC internal error.
type Executor interface {
	Execute(ctx context.Context, rc *RequestContext, queue *EventQueue) error
	Cancel(ctx context.Context, rc *RequestContext, queue *EventQueue) error
}

// Handler is the dual-dialect JSON-RPC request handler. It accepts both
// tasks/send (fabric dialect) and message/send (standard dialect), funnels
// them through one execution path and re-shapes the result per dialect
// expectations.
type Handler struct {
	Executor  Executor
	Store     *TaskStore
	Logger    *slog.Logger
	Metrics   *telemetry.RequestMetrics
	AuthToken string
}

// HandlerOption customizes the Handler wiring.
type HandlerOption func(*Handler)

// WithStore overrides the task store.
func WithStore(store *TaskStore) HandlerOption {
	return func(h *Handler) {
		if store != nil {
			h.Store = store
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.Logger = logger
		}
	}
}

// WithMetrics attaches request metrics.
func WithMetrics(metrics *telemetry.RequestMetrics) HandlerOption {
	return func(h *Handler) {
		h.Metrics = metrics
	}
}

// WithAuthToken enables the shared-secret bearer check on POST requests.
func WithAuthToken(token string) HandlerOption {
	return func(h *Handler) {
		h.AuthToken = token
	}
}

// NewHandler wires a Handler to an executor.
func NewHandler(exec Executor, opts ...HandlerOption) *Handler {
	handler := &Handler{
		Executor: exec,
		Store:    NewTaskStore(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// ServeHTTP handles JSON-RPC 2.0 requests in both dialects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Executor == nil {
		h.writeError(r.Context(), w, nil, codeInternalError, "handler not configured")
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.AuthToken != "" && bearerToken(r) != h.AuthToken {
		h.writeError(r.Context(), w, nil, codeUnauthenticated, "unauthorized")
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, nil, codeParseError, fmt.Sprintf("parse error: %v", err))
		return
	}

	ctx, span := tracer.Start(r.Context(), "rpc "+req.Method)
	defer span.End()
	span.SetAttributes(attribute.String("rpc.method", req.Method))

	h.logger().DebugContext(ctx, "rpc request", "method", req.Method)
	h.Metrics.RecordRequest(ctx, req.Method)

	switch req.Method {
	case "tasks/send":
		var params TaskSendParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			h.writeError(ctx, w, req.ID, codeInternalError, fmt.Sprintf("internal error: %v", err))
			return
		}
		h.handleSend(ctx, w, req.ID, params)
	case "message/send":
		var params MessageSendParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			h.writeError(ctx, w, req.ID, codeInternalError, fmt.Sprintf("internal error: %v", err))
			return
		}
		// The standard dialect is the fabric dialect modulo field names:
		// normalize and share the downstream path.
		converted := TaskSendParams{
			ID:        uuid.NewString(),
			SessionID: params.ContextID,
			Message:   params.Message,
		}
		h.handleSend(ctx, w, req.ID, converted)
	case "tasks/get":
		var params TaskIDParams
		_ = unmarshalParams(req.Params, &params)
		h.writeResult(w, req.ID, TaskResult{
			ID:     params.ID,
			Status: TaskStatus{State: StateCompleted},
		})
	case "tasks/cancel":
		h.handleCancel(ctx, w, req.ID, req.Params)
	default:
		h.writeError(ctx, w, req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// handleSend runs one turn: build the request context, execute, drain the
// queue and shape the dialect response.
func (h *Handler) handleSend(ctx context.Context, w http.ResponseWriter, id any, params TaskSendParams) {
	defer func() {
		if rec := recover(); rec != nil {
			h.writeError(ctx, w, id, codeInternalError, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	taskID := params.ID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	text := sendText(params.Message)
	h.logger().DebugContext(ctx, "extracted text", "text", text, "task_id", taskID)

	rc := &RequestContext{
		TaskID:       taskID,
		ContextID:    sessionID,
		OverrideText: text,
		Message: &Message{
			Role:      "user",
			MessageID: uuid.NewString(),
			Parts:     []Part{{Kind: "text", Text: text}},
		},
	}

	queue := NewEventQueue()
	if err := h.Executor.Execute(ctx, rc, queue); err != nil {
		h.writeError(ctx, w, id, codeInternalError, fmt.Sprintf("execution error: %v", err))
		return
	}

	responseText := queue.ResponseText()
	h.Store.Record(taskID, sessionID, StateCompleted)

	parts := []Part{{Type: "text", Text: responseText}}
	h.writeResult(w, id, TaskResult{
		ID:        taskID,
		SessionID: sessionID,
		Status:    TaskStatus{State: StateCompleted},
		Message:   &Message{Role: "agent", Parts: parts},
		Artifacts: []Artifact{{Parts: parts}},
	})
}

func (h *Handler) handleCancel(ctx context.Context, w http.ResponseWriter, id any, raw json.RawMessage) {
	var params TaskIDParams
	_ = unmarshalParams(raw, &params)

	// Dispatch is synchronous; there is no in-flight work to interrupt.
	// The executor contract is still honoured, its output discarded.
	rc := &RequestContext{TaskID: params.ID}
	_ = h.Executor.Cancel(ctx, rc, NewEventQueue())

	h.Store.Record(params.ID, "", StateCanceled)
	h.writeResult(w, id, TaskResult{
		ID:     params.ID,
		Status: TaskStatus{State: StateCanceled},
	})
}

// sendText scans the inbound parts for the first text-tagged part in
// either dialect.
func sendText(message Message) string {
	for _, part := range message.Parts {
		if part.IsText() {
			return part.Text
		}
	}
	return ""
}

func unmarshalParams(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func (h *Handler) writeResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, id any, code int, message string) {
	h.logger().WarnContext(ctx, "rpc error", "code", code, "message", message)
	h.Metrics.RecordRPCError(ctx, code)
	writeJSON(w, rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, payload rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func bearerToken(r *http.Request) string {
	value := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}
