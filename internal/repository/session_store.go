package repository

import (
	"context"
	"encoding/json"
	"mcq_platform_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore keeps in-progress attempt sessions in Redis. Sessions expire
// on their TTL; an expired session means the student starts over.
type SessionStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Redis: rdb, TTL: ttl}
}

func sessionKey(id string) string {
	return "attempt_session:" + id
}

func (s *SessionStore) Save(ctx context.Context, session *model.AttemptSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, sessionKey(session.ID), data, s.TTL).Err()
}

func (s *SessionStore) Find(ctx context.Context, id string) (*model.AttemptSession, error) {
	data, err := s.Redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var session model.AttemptSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, sessionKey(id)).Err()
}
