package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "stayfinder/internal/domain/auth"
	domainuser "stayfinder/internal/domain/user"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
)

// SessionStore keeps bearer sessions in Redis so restarts do not log
// everyone out. Expiry is enforced by Redis TTLs keyed off the session's
// ExpiresAt.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(addr, password string) *SessionStore {
	return &SessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	payload, err := json.Marshal(sessionDocument{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		Roles:     rolesToStrings(session.Roles),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.Token), payload, ttl)
	pipe.SAdd(ctx, userIndexKey(session.UserID), string(session.Token))
	pipe.Expire(ctx, userIndexKey(session.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var doc sessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return doc.toSession(), nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	var doc sessionDocument
	if err := json.Unmarshal(raw, &doc); err == nil && doc.UserID != "" {
		_ = s.client.SRem(ctx, userIndexPrefix+doc.UserID, string(token)).Err()
	}
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	indexKey := userIndexKey(userID)
	tokens, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	if len(tokens) > 0 {
		keys := make([]string, 0, len(tokens))
		for _, token := range tokens {
			keys = append(keys, sessionKeyPrefix+token)
		}
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, indexKey).Err()
}

type sessionDocument struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (d sessionDocument) toSession() *domainauth.Session {
	roles := make([]domainuser.Role, 0, len(d.Roles))
	for _, role := range d.Roles {
		roles = append(roles, domainuser.Role(role))
	}
	return &domainauth.Session{
		Token:     domainauth.Token(d.Token),
		UserID:    domainuser.ID(d.UserID),
		Roles:     roles,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}

func rolesToStrings(roles []domainuser.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}

func sessionKey(token domainauth.Token) string {
	return sessionKeyPrefix + string(token)
}

func userIndexKey(id domainuser.ID) string {
	return userIndexPrefix + string(id)
}

var _ domainauth.SessionStore = (*SessionStore)(nil)
