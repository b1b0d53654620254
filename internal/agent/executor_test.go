package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stratus-agent/stratus/internal/llm"
	"github.com/stratus-agent/stratus/internal/protocol"
	"github.com/stratus-agent/stratus/internal/weather"
)

func newTestExecutor() *Executor {
	ws := &fakeWeather{current: map[string]*weather.CurrentWeather{
		"Tokyo": testCurrent("Tokyo", "JP", 18.0),
	}}
	return NewExecutor(New(ws, &llm.MockProvider{Response: "ok"}, "test-model"))
}

func TestExtractQueryStrategies(t *testing.T) {
	message := &protocol.Message{Parts: []protocol.Part{{Kind: "text", Text: "from message"}}}
	wrapped := &protocol.Message{Parts: []protocol.Part{{Root: &protocol.Part{Kind: "text", Text: "from root"}}}}

	tests := []struct {
		name string
		rc   *protocol.RequestContext
		want string
	}{
		{
			name: "override wins",
			rc:   &protocol.RequestContext{OverrideText: "from override", Message: message},
			want: "from override",
		},
		{
			name: "primary message",
			rc:   &protocol.RequestContext{Message: message},
			want: "from message",
		},
		{
			name: "wrapped part envelope",
			rc:   &protocol.RequestContext{Message: wrapped},
			want: "from root",
		},
		{
			name: "internal message",
			rc:   &protocol.RequestContext{Internal: message},
			want: "from message",
		},
		{
			name: "raw request params",
			rc: &protocol.RequestContext{Request: &protocol.TaskSendParams{
				Message: protocol.Message{Parts: []protocol.Part{{Type: "text", Text: "from params"}}},
			}},
			want: "from params",
		},
		{
			name: "nothing yields empty",
			rc:   &protocol.RequestContext{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractQuery(tt.rc); got != tt.want {
				t.Errorf("extractQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteEmptyQueryReturnsHelp(t *testing.T) {
	e := newTestExecutor()
	queue := protocol.NewEventQueue()

	err := e.Execute(context.Background(), &protocol.RequestContext{}, queue)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := queue.ResponseText()
	if !strings.Contains(text, "# ☀️ Weather AI Agent") {
		t.Errorf("empty query should return the help message, got %q", text)
	}
	if !strings.Contains(text, "Just type a city name") {
		t.Errorf("help message missing tip line: %q", text)
	}
}

func TestExecuteDispatchesCurrentWeather(t *testing.T) {
	e := newTestExecutor()
	queue := protocol.NewEventQueue()
	rc := &protocol.RequestContext{OverrideText: "weather in Tokyo"}

	if err := e.Execute(context.Background(), rc, queue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := queue.ResponseText()
	if !strings.Contains(text, "Current Weather in Tokyo, JP") {
		t.Errorf("dispatch produced %q", text)
	}
}

func TestExecuteDispatchesQuery(t *testing.T) {
	ws := &fakeWeather{}
	script := llm.NewScriptedMockProvider("NONE", "Ask me about a city!")
	e := NewExecutor(New(ws, script, "test-model"))
	queue := protocol.NewEventQueue()
	rc := &protocol.RequestContext{OverrideText: "will it be nice this weekend somewhere?"}

	if err := e.Execute(context.Background(), rc, queue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := queue.ResponseText(); got != "Ask me about a city!" {
		t.Errorf("ResponseText() = %q", got)
	}
}

func TestCancelEnqueuesAcknowledgement(t *testing.T) {
	e := newTestExecutor()
	queue := protocol.NewEventQueue()

	if err := e.Cancel(context.Background(), &protocol.RequestContext{TaskID: "t1"}, queue); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := queue.ResponseText(); got != "Task cancelled." {
		t.Errorf("ResponseText() = %q, want %q", got, "Task cancelled.")
	}
}
