package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/model"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil, time.Hour, zap.NewNop())
}

func TestStoreMemoryFallback(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, model.User{ID: 1, Role: model.RoleUser}, model.AuthTokens{Access: "a", Refresh: "r"})
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("session created without an id")
	}

	got, ok := store.Get(ctx, sess.ID)
	if !ok || got.User.ID != 1 || got.Tokens.Refresh != "r" {
		t.Fatalf("Get = (%+v, %v)", got, ok)
	}

	// Get hands out a copy; mutating it must not leak into the store.
	got.Tokens.Access = "mutated"
	again, _ := store.Get(ctx, sess.ID)
	if again.Tokens.Access != "a" {
		t.Error("store record mutated through a Get copy")
	}

	store.Delete(ctx, sess.ID)
	if _, ok := store.Get(ctx, sess.ID); ok {
		t.Error("deleted session still readable")
	}
	if _, ok := store.Get(ctx, ""); ok {
		t.Error("empty id resolved to a session")
	}
}

func TestManagerLoginOpensSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"id":5,"role":"owner","full_name":"Mari"},"tokens":{"access":"acc","refresh":"ref"}}`))
	}))
	defer srv.Close()

	store := memStore(t)
	m := NewManager(store, api.New(srv.URL, nil), zap.NewNop())

	sess, err := m.Login(context.Background(), "mari", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if sess.User.Role != model.RoleOwner || sess.Tokens.Access != "acc" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if _, ok := store.Get(context.Background(), sess.ID); !ok {
		t.Error("session not persisted")
	}
}

func TestManagerRefreshFailureDropsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := memStore(t)
	m := NewManager(store, api.New(srv.URL, nil), zap.NewNop())
	ctx := context.Background()

	sess, err := store.Create(ctx, model.User{ID: 5}, model.AuthTokens{Access: "old", Refresh: "dead"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Refresh(ctx, sess); err == nil {
		t.Fatal("expected refresh failure")
	}
	if _, ok := store.Get(ctx, sess.ID); ok {
		t.Error("session survived a failed refresh")
	}
}

func TestCheckAuthRefreshesStaleAccess(t *testing.T) {
	refreshed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh/":
			refreshed = true
			w.Write([]byte(`{"access":"fresh"}`))
		case "/auth/me/":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":5,"role":"user"}`))
		}
	}))
	defer srv.Close()

	store := memStore(t)
	m := NewManager(store, api.New(srv.URL, nil), zap.NewNop())
	ctx := context.Background()

	// An unparseable access token reads as stale, so CheckAuth refreshes
	// before ever calling /auth/me/.
	sess, err := store.Create(ctx, model.User{ID: 5}, model.AuthTokens{Access: "stale-opaque", Refresh: "ref"})
	if err != nil {
		t.Fatal(err)
	}

	user, ok, err := m.CheckAuth(ctx, sess)
	if err != nil || !ok || user.ID != 5 {
		t.Fatalf("CheckAuth = (%+v, %v, %v)", user, ok, err)
	}
	if !refreshed {
		t.Fatal("silent refresh never happened")
	}
	stored, _ := store.Get(ctx, sess.ID)
	if stored.Tokens.Access != "fresh" {
		t.Errorf("stored access = %q, want fresh", stored.Tokens.Access)
	}
}

func TestCheckAuthOutageKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store := memStore(t)
	m := NewManager(store, api.New(srv.URL, nil), zap.NewNop())
	ctx := context.Background()

	// A healthy access token, so CheckAuth goes straight to /auth/me/.
	sess, err := store.Create(ctx, model.User{ID: 5}, model.AuthTokens{Access: signedAccess(t, time.Hour), Refresh: "ref"})
	if err != nil {
		t.Fatal(err)
	}

	user, ok, err := m.CheckAuth(ctx, sess)
	if ok || user != nil {
		t.Fatalf("CheckAuth authenticated against a dead API: %+v", user)
	}
	if err == nil {
		t.Fatal("outage not reported as an error")
	}
	if _, found := store.Get(ctx, sess.ID); !found {
		t.Error("session torn down by a transient API failure")
	}
}
