// File: services/assistant/interface.go
package assistant

import (
	"context"
	"time"

	sessionRepo "dulai/database/repository/session"
	"dulai/models"
	"dulai/utils"

	"go.uber.org/zap"
)

// Service drives one streamed assistant turn for a session.
type Service interface {
	StreamChat(ctx context.Context, session *models.Session, userMessage string) (<-chan models.StreamEvent, error)
}

// DefaultAssistantService implements Service.
type DefaultAssistantService struct {
	Streamer ChatStreamer
	Registry *Registry
	Sessions sessionRepo.SessionStore

	SystemPrompt string
	// UpstreamTimeout bounds a turn so a stream that never completes cannot
	// pin the request forever. Zero disables the bound.
	UpstreamTimeout time.Duration
}

// StreamChat appends the user message to history, opens the upstream
// completion and returns the outbound event channel. Session state is saved
// once the upstream stream ends.
func (s *DefaultAssistantService) StreamChat(ctx context.Context, session *models.Session, userMessage string) (<-chan models.StreamEvent, error) {
	logger := utils.GetLogger()

	session.History = append(session.History, models.Message{Role: "user", Content: userMessage})

	streamCtx := ctx
	cancel := context.CancelFunc(func() {})
	if s.UpstreamTimeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, s.UpstreamTimeout)
	}

	in, err := s.Streamer.StreamCompletion(streamCtx, CompletionRequest{
		Messages:  buildMessages(s.SystemPrompt, session),
		Functions: s.Registry.Schemas(),
	})
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan models.StreamEvent)
	go func() {
		defer close(out)
		defer cancel()

		agg := newAggregator(s.Registry, session, logger)
		agg.run(streamCtx, in, out)

		// Persist with a fresh context: a client that disconnected mid-turn
		// still gets its history recorded.
		if err := s.Sessions.Save(context.Background(), session); err != nil {
			logger.Error("failed to save session",
				zap.String("session", session.ID), zap.Error(err))
		}
	}()
	return out, nil
}
