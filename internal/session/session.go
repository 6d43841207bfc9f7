// Package session owns browser sessions for the gateway. A session binds
// a signed cookie to the token pair issued by the reservation API plus the
// user it belongs to. Token state is never global: every API call runs
// through a per-session binding, and refresh outcomes are written back
// here and nowhere else.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

// Session is one authenticated browser. ID is opaque and only ever
// travels inside the signed cookie.
type Session struct {
	ID        string           `json:"id"`
	User      model.User       `json:"user"`
	Tokens    model.AuthTokens `json:"tokens"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store persists sessions in redis under "sess:<id>". When redis is
// unavailable it degrades to a process-local map, which loses sessions on
// restart but keeps a single-instance deployment working.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger

	mu  sync.RWMutex
	mem map[string]*Session
}

// NewStore builds a session store. rdb may be nil.
func NewStore(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Store {
	s := &Store{rdb: rdb, ttl: ttl, log: log}
	if rdb == nil {
		s.mem = make(map[string]*Session)
		log.Warn("redis unavailable, sessions held in process memory")
	}
	return s
}

func sessionKey(id string) string { return "sess:" + id }

// Create persists a new session for a freshly authenticated user.
func (s *Store) Create(ctx context.Context, user model.User, tokens model.AuthTokens) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		User:      user,
		Tokens:    tokens,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by id. A missing or corrupted record reads as
// anonymous.
func (s *Store) Get(ctx context.Context, id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	if s.rdb == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		sess, ok := s.mem[id]
		if !ok {
			return nil, false
		}
		cp := *sess
		return &cp, true
	}
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("dropping unreadable session record", zap.String("sid", id), zap.Error(err))
		_ = s.rdb.Del(ctx, sessionKey(id)).Err()
		return nil, false
	}
	return &sess, true
}

// Save writes the session back, resetting its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if s.rdb == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		cp := *sess
		s.mem[sess.ID] = &cp
		return nil
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err()
}

// Delete drops a session. Used on logout and on hard auth failure.
func (s *Store) Delete(ctx context.Context, id string) {
	if s.rdb == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.mem, id)
		return
	}
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		s.log.Warn("session delete failed", zap.String("sid", id), zap.Error(err))
	}
}
