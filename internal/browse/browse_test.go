package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/model"
)

type fakeLister struct {
	mu    sync.Mutex
	calls int
	page  *model.Paginated[model.Restaurant]
	err   error
}

func (f *fakeLister) Restaurants(ctx context.Context, _ api.RestaurantFilter) (*model.Paginated[model.Restaurant], error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeLister) Features(ctx context.Context) ([]model.Feature, error) {
	return nil, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func floatPtr(v float64) *float64 { return &v }

func collection() *model.Paginated[model.Restaurant] {
	return &model.Paginated[model.Restaurant]{
		Count: 2,
		Results: []model.Restaurant{
			{ID: 1, Slug: "veranda", Name: "Veranda", Type: "restaurant",
				Latitude: "41.7151", Longitude: "44.8271", IsOpen: true, Rating: floatPtr(4.6)},
			{ID: 2, Slug: "no-coords", Name: "No Coords", Latitude: "", Longitude: ""},
		},
	}
}

func TestPinsSkipUnmappableVenues(t *testing.T) {
	svc := NewService(&fakeLister{page: collection()}, zap.NewNop())
	defer svc.Close()

	pins, err := svc.Pins(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pins) != 1 {
		t.Fatalf("got %d pins, want 1 (venue without coordinates skipped)", len(pins))
	}
	p := pins[0]
	if p.Slug != "veranda" || p.Latitude != 41.7151 || p.Longitude != 44.8271 {
		t.Errorf("unexpected pin %+v", p)
	}
	if p.Rating == nil || *p.Rating != 4.6 {
		t.Errorf("rating = %v", p.Rating)
	}
}

func TestPinsServeSnapshotWithinTTL(t *testing.T) {
	lister := &fakeLister{page: collection()}
	svc := NewService(lister, zap.NewNop())
	defer svc.Close()
	ctx := context.Background()

	if _, err := svc.Pins(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Pins(ctx); err != nil {
		t.Fatal(err)
	}
	if n := lister.callCount(); n != 1 {
		t.Errorf("collection fetched %d times, want 1", n)
	}
}

func TestPinsServeStaleOnRefreshFailure(t *testing.T) {
	lister := &fakeLister{page: collection()}
	svc := NewService(lister, zap.NewNop())
	defer svc.Close()
	ctx := context.Background()

	if _, err := svc.Pins(ctx); err != nil {
		t.Fatal(err)
	}

	// Age the snapshot past its TTL, then break the upstream.
	svc.mu.Lock()
	svc.fetchedAt = time.Now().Add(-2 * snapshotTTL)
	svc.mu.Unlock()
	lister.err = errors.New("api down")

	pins, err := svc.Pins(ctx)
	if err != nil {
		t.Fatalf("stale snapshot should still serve, got %v", err)
	}
	if len(pins) != 1 {
		t.Errorf("got %d pins from stale snapshot, want 1", len(pins))
	}
}

func TestPinsFailWithoutAnySnapshot(t *testing.T) {
	svc := NewService(&fakeLister{err: errors.New("api down")}, zap.NewNop())
	defer svc.Close()

	if _, err := svc.Pins(context.Background()); err == nil {
		t.Error("expected error with no snapshot to fall back on")
	}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	d := NewDebouncer(30*time.Millisecond, func() {
		mu.Lock()
		runs++
		mu.Unlock()
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	got := runs
	mu.Unlock()
	if got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	d := NewDebouncer(20*time.Millisecond, func() {
		mu.Lock()
		runs++
		mu.Unlock()
	})

	d.Trigger()
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if runs != 0 {
		t.Errorf("fn ran %d times after Stop, want 0", runs)
	}
}
