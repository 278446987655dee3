package assistant

import (
	"encoding/json"

	"dulai/models"
)

// historyWindow is how many trailing turns of stored history go into the
// outbound prompt. Stored history itself is never truncated.
const historyWindow = 12

// buildMessages assembles the upstream message list: system prompt, a
// snapshot of the fields extracted so far (when any), then the trailing
// history window. The caller appends the new user message to history before
// calling.
func buildMessages(systemPrompt string, session *models.Session) []models.Message {
	msgs := []models.Message{{Role: "system", Content: systemPrompt}}

	if len(session.Fields) > 0 {
		snapshot, err := json.Marshal(session.Fields)
		if err == nil {
			msgs = append(msgs, models.Message{
				Role:    "system",
				Content: "Known booking details so far: " + string(snapshot),
			})
		}
	}

	history := session.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return append(msgs, history...)
}
