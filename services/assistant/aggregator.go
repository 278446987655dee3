package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dulai/models"

	"go.uber.org/zap"
)

// aggregator reassembles complete function calls from the fragment stream of
// a single chat turn and interleaves their results with plain text, in strict
// arrival order. One instance serves one request.
//
// It is a two-state machine: idle while only text is flowing, accumulating
// once the first call fragment arrives. The upstream protocol never mixes
// text and call fragments within one logical turn, and at most one call is in
// flight at a time.
type aggregator struct {
	registry *Registry
	session  *models.Session
	logger   *zap.Logger

	callName string
	argBuf   strings.Builder
	textBuf  strings.Builder
}

func newAggregator(registry *Registry, session *models.Session, logger *zap.Logger) *aggregator {
	return &aggregator{registry: registry, session: session, logger: logger}
}

// run consumes upstream chunks until the channel closes, emitting each
// outbound event before awaiting the next chunk. On stream end it appends the
// accumulated assistant text to session history, even when empty.
func (a *aggregator) run(ctx context.Context, in <-chan CompletionChunk, out chan<- models.StreamEvent) {
	for chunk := range in {
		switch {
		case chunk.Err != nil:
			if !emit(ctx, out, models.ErrorEvent(chunk.Err.Error())) {
				return
			}
		case chunk.CallDone:
			if !emit(ctx, out, a.finishCall(ctx)) {
				return
			}
		case chunk.Call != nil:
			// First-seen name wins; later fragments may be name-less.
			if a.callName == "" && chunk.Call.Name != "" {
				a.callName = chunk.Call.Name
			}
			// Argument JSON is split arbitrarily across fragments: always
			// append, never replace.
			a.argBuf.WriteString(chunk.Call.Arguments)
		case chunk.Content != "":
			a.textBuf.WriteString(chunk.Content)
			if !emit(ctx, out, models.ContentEvent(chunk.Content)) {
				return
			}
		}
	}

	a.session.History = append(a.session.History, models.Message{
		Role:    "assistant",
		Content: a.textBuf.String(),
	})
}

// finishCall parses the accumulated argument buffer and dispatches the call.
// Every failure is local to the call: the turn continues either way.
func (a *aggregator) finishCall(ctx context.Context) models.StreamEvent {
	name := a.callName
	raw := a.argBuf.String()
	a.callName = ""
	a.argBuf.Reset()

	args := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			a.logger.Warn("malformed function call arguments",
				zap.String("function", name), zap.Error(err))
			return models.ErrorEvent(fmt.Sprintf("malformed arguments for %q: %v", name, err))
		}
	}

	if name == "" {
		return models.ErrorEvent("function call completed without a name")
	}

	if name == ExtractFieldsName {
		// The "result" of a field extraction is a state mutation: merge into
		// the session, later keys overwriting earlier ones, then echo.
		for k, v := range args {
			a.session.Fields[k] = v
		}
		return models.ResultEvent(args)
	}

	result, err := a.registry.Invoke(ctx, name, args)
	if err != nil {
		a.logger.Warn("function dispatch failed",
			zap.String("function", name), zap.Error(err))
		return models.ErrorEvent(err.Error())
	}
	return models.ResultEvent(result)
}

// emit delivers one outbound event, giving up when the caller is gone.
func emit(ctx context.Context, out chan<- models.StreamEvent, ev models.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
