package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		if req.Model != "llama3.1" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Message:         Message{Role: RoleAssistant, Content: "hello back"},
			Done:            true,
			EvalCount:       5,
			PromptEvalCount: 7,
		})
	}))
	defer server.Close()

	p := NewOllama(server.URL)
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model:    "llama3.1",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "hello back" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("total tokens = %d, want 12", resp.Usage.TotalTokens)
	}
}

func TestOllamaChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewOllama(server.URL)
	if _, err := p.Chat(context.Background(), ChatRequest{Model: "m"}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestGenerate(t *testing.T) {
	p := &MockProvider{Response: "generated"}
	got, err := Generate(context.Background(), p, "m", "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "generated" {
		t.Errorf("Generate = %q", got)
	}
}

func TestScriptedMockProvider(t *testing.T) {
	p := NewScriptedMockProvider("one", "two")

	for _, want := range []string{"one", "two"} {
		resp, err := p.Chat(context.Background(), ChatRequest{})
		if err != nil {
			t.Fatalf("Chat: %v", err)
		}
		if resp.Content != want {
			t.Errorf("content = %q, want %q", resp.Content, want)
		}
	}
	if _, err := p.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Fatal("exhausted script should error")
	}
	if p.CallCount != 3 {
		t.Errorf("CallCount = %d, want 3", p.CallCount)
	}
}
