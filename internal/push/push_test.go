package push

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

type fakeKeys struct {
	calls int
	key   string
	err   error
}

func (f *fakeKeys) VapidPublicKey(ctx context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

type fakeExchanger struct {
	subs   []model.PushSubscription
	unsubs []string
	err    error
}

func (f *fakeExchanger) SubscribePush(ctx context.Context, sub model.PushSubscription) error {
	if f.err != nil {
		return f.err
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeExchanger) UnsubscribePush(ctx context.Context, endpoint string) error {
	if f.err != nil {
		return f.err
	}
	f.unsubs = append(f.unsubs, endpoint)
	return nil
}

func TestVapidKeyCached(t *testing.T) {
	keys := &fakeKeys{key: "BPkey"}
	b := NewBridge(keys, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key, err := b.VapidPublicKey(ctx)
		if err != nil || key != "BPkey" {
			t.Fatalf("VapidPublicKey = (%q, %v)", key, err)
		}
	}
	if keys.calls != 1 {
		t.Errorf("upstream asked %d times, want 1", keys.calls)
	}
}

func TestVapidKeyStaleBeatsUnavailable(t *testing.T) {
	keys := &fakeKeys{key: "BPkey"}
	b := NewBridge(keys, zap.NewNop())
	ctx := context.Background()

	if _, err := b.VapidPublicKey(ctx); err != nil {
		t.Fatal(err)
	}
	b.mu.Lock()
	b.fetchedAt = time.Now().Add(-2 * vapidTTL)
	b.mu.Unlock()
	keys.err = errors.New("api down")

	key, err := b.VapidPublicKey(ctx)
	if err != nil || key != "BPkey" {
		t.Errorf("stale key not served: (%q, %v)", key, err)
	}
}

func TestSubscribeValidatesPayload(t *testing.T) {
	b := NewBridge(&fakeKeys{}, zap.NewNop())
	ex := &fakeExchanger{}
	ctx := context.Background()

	bad := []model.PushSubscription{
		{},
		{Endpoint: "https://push.example/e1"},
		{Endpoint: "https://push.example/e1", P256dh: "p"},
	}
	for _, sub := range bad {
		if err := b.Subscribe(ctx, ex, sub); !errors.Is(err, ErrInvalidSubscription) {
			t.Errorf("Subscribe(%+v) = %v, want ErrInvalidSubscription", sub, err)
		}
	}
	if len(ex.subs) != 0 {
		t.Error("invalid subscription reached the API")
	}

	good := model.PushSubscription{Endpoint: "https://push.example/e1", P256dh: "p", Auth: "a"}
	if err := b.Subscribe(ctx, ex, good); err != nil {
		t.Fatal(err)
	}
	if len(ex.subs) != 1 || ex.subs[0] != good {
		t.Errorf("relayed %+v", ex.subs)
	}
}

func TestUnsubscribeRequiresEndpoint(t *testing.T) {
	b := NewBridge(&fakeKeys{}, zap.NewNop())
	ex := &fakeExchanger{}
	ctx := context.Background()

	if err := b.Unsubscribe(ctx, ex, ""); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("err = %v", err)
	}
	if err := b.Unsubscribe(ctx, ex, "https://push.example/e1"); err != nil {
		t.Fatal(err)
	}
	if len(ex.unsubs) != 1 {
		t.Errorf("unsubs = %v", ex.unsubs)
	}
}

func TestServiceWorkerEmbedded(t *testing.T) {
	if len(ServiceWorker) == 0 {
		t.Fatal("service worker script is empty")
	}
	for _, needle := range [][]byte{[]byte("push"), []byte("notificationclick")} {
		if !bytes.Contains(ServiceWorker, needle) {
			t.Errorf("script missing %q handler", needle)
		}
	}
}
