package protocol

// RequestContext carries one user turn into the executor. Callers populate
// it unevenly: the fabric bridge sets OverrideText directly, SDK-shaped
// callers set Message or Internal, and some only hand over the raw request
// params. Constructed per request, discarded when the turn completes.
type RequestContext struct {
	TaskID    string
	ContextID string

	// OverrideText is pre-extracted text set by the protocol bridge. When
	// set it wins over every other extraction strategy.
	OverrideText string

	// Message is the primary inbound message.
	Message *Message

	// Internal is the secondary message field some context constructors
	// populate instead of Message.
	Internal *Message

	// Request holds the raw request params when no message was lifted out.
	Request *TaskSendParams
}

// UserInput is the standard accessor for the turn's text. It honours the
// override first, then scans the primary message.
func (c *RequestContext) UserInput() string {
	if c == nil {
		return ""
	}
	if c.OverrideText != "" {
		return c.OverrideText
	}
	return FirstText(c.Message)
}

// FirstText returns the first non-empty text payload in a message, looking
// through variant part envelopes. Empty result means no text, never an error.
func FirstText(m *Message) string {
	if m == nil {
		return ""
	}
	for _, part := range m.Parts {
		if part.Text != "" {
			return part.Text
		}
		if part.Root != nil && part.Root.Text != "" {
			return part.Root.Text
		}
	}
	return ""
}
