package protocol

import "encoding/json"

// EventQueue collects output events from one execution. Lifetime is a
// single request; it is never shared across requests.
type EventQueue struct {
	events []any
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Enqueue appends an event.
func (q *EventQueue) Enqueue(event any) {
	q.events = append(q.events, event)
}

// Events returns all collected events in order.
func (q *EventQueue) Events() []any {
	return q.events
}

// ResponseText extracts the final response text from the queued events.
// Each event is probed in order with four strategies: message parts with
// direct text, parts with a variant root envelope, a direct text field,
// and finally a structural dump scanned for a parts list with text
// entries. The first non-empty hit wins; no hit yields "" which is a
// valid terminal state, not an error.
func (q *EventQueue) ResponseText() string {
	for _, event := range q.events {
		if text := eventText(event); text != "" {
			return text
		}
	}
	return ""
}

func eventText(event any) string {
	switch v := event.(type) {
	case *Message:
		if text := FirstText(v); text != "" {
			return text
		}
	case Message:
		if text := FirstText(&v); text != "" {
			return text
		}
	case string:
		return v
	}
	return dumpedText(event)
}

// dumpedText round-trips the event through JSON and scans any parts list
// for entries carrying a text key. This catches foreign event shapes the
// typed probes above do not know about.
func dumpedText(event any) string {
	raw, err := json.Marshal(event)
	if err != nil {
		return ""
	}
	var dump map[string]any
	if err := json.Unmarshal(raw, &dump); err != nil {
		return ""
	}
	if text, ok := dump["text"].(string); ok && text != "" {
		return text
	}
	parts, ok := dump["parts"].([]any)
	if !ok {
		return ""
	}
	for _, entry := range parts {
		part, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := part["text"].(string); ok && text != "" {
			return text
		}
		if root, ok := part["root"].(map[string]any); ok {
			if text, ok := root["text"].(string); ok && text != "" {
				return text
			}
		}
	}
	return ""
}
