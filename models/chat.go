package models

// ChatRequest is the payload coming from the frontend into /chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Message is a single conversational turn kept in session history and sent
// upstream as part of the prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the per-visitor conversational state: booking fields the
// assistant has extracted so far plus the full message history. Sessions are
// identified by an opaque token carried in the dulai_sid cookie.
type Session struct {
	ID      string         `json:"id"`
	Fields  map[string]any `json:"fields"`
	History []Message      `json:"history"`
}

// StreamEvent is one line of the NDJSON chat response. Exactly one of the
// three fields is set.
type StreamEvent struct {
	Content        *string `json:"content,omitempty"`
	FunctionResult any     `json:"function_result,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// ContentEvent wraps a plain assistant text fragment.
func ContentEvent(text string) StreamEvent {
	return StreamEvent{Content: &text}
}

// ResultEvent wraps the return value of a dispatched function call.
func ResultEvent(result any) StreamEvent {
	return StreamEvent{FunctionResult: result}
}

// ErrorEvent wraps a per-event error surfaced inline in the stream.
func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Error: msg}
}
