package assistant

import (
	"context"

	"dulai/models"
)

// FunctionSchema describes one function advertised to the model. Parameters
// is a raw JSON-schema object forwarded verbatim.
type FunctionSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// CompletionRequest is what the upstream completion needs for one turn.
type CompletionRequest struct {
	Messages  []models.Message
	Functions []FunctionSchema
}

// CallFragment is one piece of a streamed function call. Name may arrive on
// the first fragment only; Arguments pieces keep arriving across fragments
// and only form valid JSON once concatenated.
type CallFragment struct {
	Name      string
	Arguments string
}

// CompletionChunk is a single upstream stream event: a text fragment, a
// function-call fragment, the call-completion marker, or a transport error.
type CompletionChunk struct {
	Content  string
	Call     *CallFragment
	CallDone bool
	Err      error
}

// ChatStreamer is the abstract upstream completion source: it produces a
// lazy, single-pass, non-restartable sequence of chunks, finite for a
// completed turn. The channel is closed when the turn ends.
type ChatStreamer interface {
	StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan CompletionChunk, error)
}
