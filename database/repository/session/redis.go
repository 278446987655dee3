// File: database/repository/session/redis.go
package sessionRepo

import (
	"context"
	"encoding/json"
	"time"

	"dulai/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "chat:session:"

// redisSessionStore persists sessions as JSON blobs with a TTL matching the
// session cookie lifetime.
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore constructs a Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) GetOrCreate(ctx context.Context, token string) (*models.Session, error) {
	if token != "" {
		data, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
		if err == nil {
			var sess models.Session
			if err := json.Unmarshal([]byte(data), &sess); err != nil {
				return nil, err
			}
			if sess.Fields == nil {
				sess.Fields = make(map[string]any)
			}
			return &sess, nil
		}
		if err != redis.Nil {
			return nil, err
		}
	}
	sess := &models.Session{
		ID:      uuid.NewString(),
		Fields:  make(map[string]any),
		History: []models.Message{},
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *models.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, b, s.ttl).Err()
}
