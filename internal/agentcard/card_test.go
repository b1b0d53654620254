package agentcard

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	card, err := New("http://localhost:8000", "1.0.0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if card.URL != "http://localhost:8000/" {
		t.Errorf("URL = %q, want trailing slash", card.URL)
	}
	if len(card.Skills) != 7 {
		t.Fatalf("len(Skills) = %d, want 7", len(card.Skills))
	}
	wantIDs := []string{"current_weather", "forecast", "air_quality", "recommendations", "compare", "summary", "query"}
	for i, id := range wantIDs {
		if card.Skills[i].ID != id {
			t.Errorf("Skills[%d].ID = %q, want %q", i, card.Skills[i].ID, id)
		}
	}
	if card.Capabilities.Streaming {
		t.Error("streaming should not be advertised")
	}
}

func TestHandler(t *testing.T) {
	card, err := New("http://localhost:8000/", "1.0.0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	card.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/.well-known/agent.json", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded["name"] != "Weather AI Agent" {
		t.Errorf("name = %v", decoded["name"])
	}
	if _, ok := decoded["defaultInputModes"]; !ok {
		t.Error("defaultInputModes missing from serialized card")
	}
}
