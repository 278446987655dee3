package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessionRepo "dulai/database/repository/session"
	"dulai/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAssistant replays canned events and records what it was asked.
type fakeAssistant struct {
	events      []models.StreamEvent
	lastMessage string
	lastSession *models.Session
	err         error
}

func (f *fakeAssistant) StreamChat(ctx context.Context, session *models.Session, userMessage string) (<-chan models.StreamEvent, error) {
	f.lastMessage = userMessage
	f.lastSession = session
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan models.StreamEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func newTestRouter(fake *fakeAssistant, sessions sessionRepo.SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(fake, sessions)
	r.POST("/chat", h.HandleChat)
	return r
}

// streamRecorder adds the CloseNotify that gin's Stream expects of the
// response writer, which httptest.ResponseRecorder lacks.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		closed:           make(chan bool, 1),
	}
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestHandleChatStreamsNDJSON(t *testing.T) {
	fake := &fakeAssistant{events: []models.StreamEvent{
		models.ContentEvent("Hello"),
		models.ResultEvent(map[string]any{"zip": "95814"}),
		models.ErrorEvent("unknown function \"x\""),
	}}
	sessions := sessionRepo.NewMemorySessionStore()
	router := newTestRouter(fake, sessions)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := newStreamRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
	assert.Equal(t, "hi", fake.lastMessage)

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"content":"Hello"}`, lines[0])
	assert.JSONEq(t, `{"function_result":{"zip":"95814"}}`, lines[1])
	assert.JSONEq(t, `{"error":"unknown function \"x\""}`, lines[2])
}

func TestHandleChatSetsSessionCookie(t *testing.T) {
	fake := &fakeAssistant{events: []models.StreamEvent{models.ContentEvent("hi")}}
	sessions := sessionRepo.NewMemorySessionStore()
	router := newTestRouter(fake, sessions)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := newStreamRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie must be set")
	assert.Equal(t, fake.lastSession.ID, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)

	// A request bearing the cookie reuses the same session.
	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"again"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w = newStreamRecorder()
	first := fake.lastSession
	router.ServeHTTP(w, req)
	assert.Same(t, first, fake.lastSession)
}

func TestHandleChatRejectsBadBody(t *testing.T) {
	fake := &fakeAssistant{}
	router := newTestRouter(fake, sessionRepo.NewMemorySessionStore())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := newStreamRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatUpstreamFailure(t *testing.T) {
	fake := &fakeAssistant{err: assert.AnError}
	router := newTestRouter(fake, sessionRepo.NewMemorySessionStore())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := newStreamRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
