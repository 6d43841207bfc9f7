package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/model"
)

// staleWindow is how close to expiry an access token may get before
// CheckAuth refreshes it proactively instead of waiting for a 401.
const staleWindow = 30 * time.Second

// Manager ties the store to the reservation API: login, register, logout
// and auth checks all round-trip through the remote service and keep the
// local session in sync.
type Manager struct {
	store *Store
	api   *api.Client
	log   *zap.Logger
}

// NewManager wires a manager from its parts. The api client must be the
// anonymous base client; the manager binds it per session as needed.
func NewManager(store *Store, apiClient *api.Client, log *zap.Logger) *Manager {
	return &Manager{store: store, api: apiClient, log: log}
}

// Store exposes the underlying session store.
func (m *Manager) Store() *Store { return m.store }

// Client returns the API client bound to the given session, or the
// anonymous client when sess is nil.
func (m *Manager) Client(ctx context.Context, sess *Session) *api.Client {
	if sess == nil {
		return m.api
	}
	return m.api.WithTokens(m.bind(ctx, sess))
}

// Login authenticates against the API and opens a session.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := m.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sess, err := m.store.Create(ctx, resp.User, resp.Tokens)
	if err != nil {
		return nil, err
	}
	m.log.Info("user logged in", zap.Int64("user_id", resp.User.ID), zap.String("role", resp.User.Role))
	return sess, nil
}

// Register creates an account and opens a session in one step, matching
// the API's register-returns-tokens contract.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (*Session, error) {
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	sess, err := m.store.Create(ctx, resp.User, resp.Tokens)
	if err != nil {
		return nil, err
	}
	m.log.Info("user registered", zap.Int64("user_id", resp.User.ID))
	return sess, nil
}

// Logout revokes the refresh token remotely (best effort) and always
// clears the local session.
func (m *Manager) Logout(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	if sess.Tokens.Refresh != "" {
		if err := m.Client(ctx, sess).Logout(ctx, sess.Tokens.Refresh); err != nil {
			m.log.Debug("remote logout failed, clearing session anyway", zap.Error(err))
		}
	}
	m.store.Delete(ctx, sess.ID)
}

// CheckAuth validates the session against the API, refreshing the access
// token first when it is about to expire. A hard auth failure tears the
// session down and reports ok=false with a nil error; the caller should
// force re-login. A transient API failure keeps the session and returns
// the error instead, so an outage is not mistaken for an expired login.
func (m *Manager) CheckAuth(ctx context.Context, sess *Session) (*model.User, bool, error) {
	if sess == nil {
		return nil, false, nil
	}
	if AccessStale(sess.Tokens.Access, staleWindow) {
		if _, err := m.Refresh(ctx, sess); err != nil {
			return nil, false, nil
		}
	}
	user, err := m.Client(ctx, sess).Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthExpired) {
			return nil, false, nil // binding already dropped the session
		}
		// Transient API trouble: keep the session, let the caller decide
		// how to answer this one request.
		m.log.Warn("auth check failed", zap.Error(err))
		return nil, false, err
	}
	sess.User = *user
	_ = m.store.Save(ctx, sess)
	return user, true, nil
}

// Refresh performs an explicit refresh for the session and returns the new
// access token. On failure the session is torn down so the user is sent
// back through login.
func (m *Manager) Refresh(ctx context.Context, sess *Session) (string, error) {
	access, err := m.api.RefreshAccess(ctx, sess.Tokens.Refresh)
	if err != nil {
		m.store.Delete(ctx, sess.ID)
		return "", err
	}
	sess.Tokens.Access = access
	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}
	return access, nil
}

// bind adapts a session to api.TokenSource so silent refreshes performed
// inside the client are written back to the store.
func (m *Manager) bind(ctx context.Context, sess *Session) *binding {
	return &binding{ctx: ctx, store: m.store, sess: sess}
}

type binding struct {
	ctx   context.Context
	store *Store
	sess  *Session
}

func (b *binding) Tokens() (model.AuthTokens, bool) {
	return b.sess.Tokens, true
}

func (b *binding) RefreshApplied(access string) {
	b.sess.Tokens.Access = access
	_ = b.store.Save(b.ctx, b.sess)
}

func (b *binding) AuthExpired() {
	b.store.Delete(b.ctx, b.sess.ID)
}
