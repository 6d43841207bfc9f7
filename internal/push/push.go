// Package push is the bridge between the browser's push machinery and the
// reservation API. The gateway serves the background worker script, hands
// the server's VAPID application key to the browser, and relays
// subscription keys to the API with the caller's session attached; the
// API stores subscriptions and sends the actual Web Push messages.
package push

import (
	"context"
	_ "embed"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

// ServiceWorker is the script the browser registers at /sw.js. It renders
// a system notification from {title, body, icon, badge, url, tag} push
// payloads and focuses or opens a window at the carried url on click.
//
//go:embed sw.js
var ServiceWorker []byte

// vapidTTL bounds how long the application key is served from memory. The
// key effectively never changes, but a restart of the API with fresh keys
// should propagate within a cache lifetime.
const vapidTTL = time.Hour

// ErrInvalidSubscription rejects subscription payloads missing the
// endpoint or either encryption key.
var ErrInvalidSubscription = errors.New("subscription requires endpoint, p256dh and auth")

// Exchanger is the notifications slice of the API client, bound to the
// caller's session for subscribe/unsubscribe.
type Exchanger interface {
	SubscribePush(ctx context.Context, sub model.PushSubscription) error
	UnsubscribePush(ctx context.Context, endpoint string) error
}

// KeySource fetches the VAPID public key; it needs no session.
type KeySource interface {
	VapidPublicKey(ctx context.Context) (string, error)
}

// Bridge caches the application key and forwards subscription exchanges.
type Bridge struct {
	keys KeySource
	log  *zap.Logger

	mu        sync.Mutex
	vapidKey  string
	fetchedAt time.Time
}

// NewBridge builds the bridge over the anonymous API client.
func NewBridge(keys KeySource, log *zap.Logger) *Bridge {
	return &Bridge{keys: keys, log: log}
}

// VapidPublicKey returns the server's application key, cached for an hour.
func (b *Bridge) VapidPublicKey(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vapidKey != "" && time.Since(b.fetchedAt) < vapidTTL {
		return b.vapidKey, nil
	}
	key, err := b.keys.VapidPublicKey(ctx)
	if err != nil {
		if b.vapidKey != "" {
			return b.vapidKey, nil // stale beats unavailable
		}
		return "", err
	}
	b.vapidKey = key
	b.fetchedAt = time.Now()
	return key, nil
}

// Subscribe validates and relays a browser subscription through the
// session-bound client.
func (b *Bridge) Subscribe(ctx context.Context, client Exchanger, sub model.PushSubscription) error {
	if sub.Endpoint == "" || sub.P256dh == "" || sub.Auth == "" {
		return ErrInvalidSubscription
	}
	if err := client.SubscribePush(ctx, sub); err != nil {
		return err
	}
	b.log.Info("push subscription registered")
	return nil
}

// Unsubscribe relays a subscription removal by endpoint.
func (b *Bridge) Unsubscribe(ctx context.Context, client Exchanger, endpoint string) error {
	if endpoint == "" {
		return ErrInvalidSubscription
	}
	return client.UnsubscribePush(ctx, endpoint)
}
