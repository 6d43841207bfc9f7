package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bronla/gateway/internal/model"
)

func avail(date string, slots ...model.TimeSlot) *model.AvailabilityResponse {
	return &model.AvailabilityResponse{
		Date: date,
		Places: []model.PlaceAvailability{
			{ID: 7, Name: date, Type: "hall", Capacity: 4, Slots: slots},
		},
	}
}

// fakeFetcher answers availability per date and can hold each response
// until the test releases it, to stage out-of-order arrivals.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []QueryKey
	resp    map[string]*model.AvailabilityResponse
	err     error
	started chan string
	release map[string]chan struct{}
}

func (f *fakeFetcher) Availability(ctx context.Context, slug, date string, guests int) (*model.AvailabilityResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, QueryKey{Date: date, GuestCount: guests})
	f.mu.Unlock()
	if f.started != nil {
		f.started <- date
	}
	if f.release != nil {
		<-f.release[date]
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp[date], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCreator struct {
	mu    sync.Mutex
	calls []model.ReservationCreate
	res   *model.Reservation
	err   error
}

func (f *fakeCreator) CreateReservation(ctx context.Context, req model.ReservationCreate) (*model.Reservation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func (f *fakeCreator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func loadedController(t *testing.T, fetch *fakeFetcher, key QueryKey) *Controller {
	t.Helper()
	ctrl := NewController("veranda", 3, fetch, nil)
	if !ctrl.SetQuery(key) {
		t.Fatalf("SetQuery(%v) = false, want true", key)
	}
	ctrl.Load(context.Background())
	return ctrl
}

func TestSetQueryInvalidKeyNeverFetches(t *testing.T) {
	fetch := &fakeFetcher{}
	ctrl := NewController("veranda", 3, fetch, nil)

	if ctrl.SetQuery(QueryKey{Date: "", GuestCount: 2}) {
		t.Error("SetQuery with empty date should not request a fetch")
	}
	if ctrl.SetQuery(QueryKey{Date: "2026-09-01", GuestCount: 0}) {
		t.Error("SetQuery with zero guests should not request a fetch")
	}
	ctrl.Load(context.Background())
	if n := fetch.callCount(); n != 0 {
		t.Errorf("fetch called %d times for invalid keys, want 0", n)
	}
	if v := ctrl.Snapshot(); v.State != StateNoDate && v.State != StateDateChosen {
		t.Errorf("unexpected state %q", v.State)
	}
}

func TestSetQuerySameKeyIsNoop(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	key := QueryKey{Date: "2026-09-01", GuestCount: 2}
	ctrl := loadedController(t, fetch, key)

	if ctrl.SetQuery(key) {
		t.Error("repeating the identical key should be a no-op")
	}
	if n := fetch.callCount(); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
}

func TestLoadAppliesAvailability(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01",
			model.TimeSlot{Time: "18:00", Available: true},
			model.TimeSlot{Time: "18:30", Available: false},
		),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})

	v := ctrl.Snapshot()
	if v.State != StateDateChosen {
		t.Fatalf("state = %q, want %q", v.State, StateDateChosen)
	}
	if v.Loading {
		t.Error("loading flag still set after load completed")
	}
	if len(v.Places) != 1 || len(v.Places[0].Slots) != 2 {
		t.Fatalf("unexpected places in view: %+v", v.Places)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	fetch := &fakeFetcher{
		resp: map[string]*model.AvailabilityResponse{
			"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
			"2026-09-02": avail("2026-09-02", model.TimeSlot{Time: "19:00", Available: true}),
		},
		started: make(chan string, 2),
		release: map[string]chan struct{}{
			"2026-09-01": make(chan struct{}),
			"2026-09-02": make(chan struct{}),
		},
	}
	ctrl := NewController("veranda", 3, fetch, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	ctrl.SetQuery(QueryKey{Date: "2026-09-01", GuestCount: 2})
	wg.Add(1)
	go func() { defer wg.Done(); ctrl.Load(ctx) }()
	<-fetch.started

	ctrl.SetQuery(QueryKey{Date: "2026-09-02", GuestCount: 2})
	wg.Add(1)
	go func() { defer wg.Done(); ctrl.Load(ctx) }()
	<-fetch.started

	// The newer query's response lands first; the older one arrives late
	// and must be dropped even though it finishes last.
	close(fetch.release["2026-09-02"])
	waitFor(t, func() bool { return !ctrl.Snapshot().Loading })
	close(fetch.release["2026-09-01"])
	wg.Wait()

	v := ctrl.Snapshot()
	if len(v.Places) != 1 || v.Places[0].Name != "2026-09-02" {
		t.Fatalf("view shows %+v, want availability of 2026-09-02", v.Places)
	}
	if v.Error != "" {
		t.Errorf("unexpected error %q after discarding stale response", v.Error)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestLoadFailureShowsMessage(t *testing.T) {
	fetch := &fakeFetcher{err: errors.New("boom")}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})

	v := ctrl.Snapshot()
	if v.Error != MsgLoadFailed {
		t.Errorf("error = %q, want %q", v.Error, MsgLoadFailed)
	}
	if len(v.Places) != 0 {
		t.Errorf("places should be empty after a failed load, got %+v", v.Places)
	}
}

func TestSameKeyRetriesAfterLoadFailure(t *testing.T) {
	fetch := &fakeFetcher{err: errors.New("boom")}
	key := QueryKey{Date: "2026-09-01", GuestCount: 2}
	ctrl := loadedController(t, fetch, key)

	if v := ctrl.Snapshot(); v.Error != MsgLoadFailed {
		t.Fatalf("error = %q, want %q", v.Error, MsgLoadFailed)
	}

	// Re-sending the identical query after a failure is a manual retry,
	// not a no-op.
	fetch.err = nil
	fetch.resp = map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}
	if !ctrl.SetQuery(key) {
		t.Fatal("unchanged key after a failed load should trigger a reload")
	}
	ctrl.Load(context.Background())

	v := ctrl.Snapshot()
	if v.Error != "" {
		t.Errorf("error = %q after successful retry", v.Error)
	}
	if len(v.Places) != 1 {
		t.Errorf("places = %+v, want the retried availability", v.Places)
	}
	if n := fetch.callCount(); n != 2 {
		t.Errorf("fetch called %d times, want 2", n)
	}
}

func TestClosedDayHidesSlots(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": {
			Date:     "2026-09-01",
			IsClosed: true,
			Places:   []model.PlaceAvailability{{ID: 7, Slots: []model.TimeSlot{{Time: "18:00", Available: true}}}},
		},
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})

	v := ctrl.Snapshot()
	if !v.Closed {
		t.Fatal("closed flag not set")
	}
	if v.Error != MsgClosed {
		t.Errorf("error = %q, want %q", v.Error, MsgClosed)
	}
	if len(v.Places) != 0 {
		t.Errorf("closed day must hide slots, got %+v", v.Places)
	}
}

func TestSelectRequiresAvailableSlot(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01",
			model.TimeSlot{Time: "18:00", Available: true},
			model.TimeSlot{Time: "18:30", Available: false},
		),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})

	if err := ctrl.Select(7, "18:30"); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("selecting an unavailable slot: err = %v, want ErrSlotUnavailable", err)
	}
	if err := ctrl.Select(99, "18:00"); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("selecting an unknown place: err = %v, want ErrSlotUnavailable", err)
	}
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatalf("selecting a free slot: %v", err)
	}
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Errorf("re-selecting the same slot must be idempotent, got %v", err)
	}

	v := ctrl.Snapshot()
	if v.State != StateSlotChosen || v.Selection == nil || v.Selection.Time != "18:00" {
		t.Fatalf("unexpected view after select: %+v", v)
	}
}

func TestQueryChangeClearsSelection(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
		"2026-09-02": avail("2026-09-02", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}

	ctrl.SetQuery(QueryKey{Date: "2026-09-02", GuestCount: 2})
	v := ctrl.Snapshot()
	if v.Selection != nil {
		t.Errorf("selection %+v survived a date change", v.Selection)
	}
	if v.State != StateDateChosen {
		t.Errorf("state = %q, want %q", v.State, StateDateChosen)
	}

	// Same date, different party size invalidates too.
	ctrl.Load(context.Background())
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}
	ctrl.SetQuery(QueryKey{Date: "2026-09-02", GuestCount: 4})
	if v := ctrl.Snapshot(); v.Selection != nil {
		t.Errorf("selection %+v survived a guest count change", v.Selection)
	}
}

func TestReloadRevalidatesSelection(t *testing.T) {
	first := avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true})
	second := avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: false})
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{"2026-09-01": first}}

	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}

	// The slot was taken by someone else between loads.
	fetch.resp["2026-09-01"] = second
	ctrl.Load(context.Background())

	if v := ctrl.Snapshot(); v.Selection != nil {
		t.Errorf("selection %+v kept although the slot became unavailable", v.Selection)
	}
}

func TestSubmitRequiresLogin(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}

	create := &fakeCreator{}
	_, err := ctrl.Submit(context.Background(), create, false, "")
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
	if create.callCount() != 0 {
		t.Error("anonymous submit must not reach the network")
	}
	// The selection survives for after the login round trip.
	if v := ctrl.Snapshot(); v.Selection == nil {
		t.Error("selection lost by a rejected anonymous submit")
	}
}

func TestSubmitRequiresCompleteSelection(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	create := &fakeCreator{}
	ctx := context.Background()

	ctrl := NewController("veranda", 3, fetch, nil)
	if _, err := ctrl.Submit(ctx, create, true, ""); !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("submit without date: err = %v, want ErrIncompleteSelection", err)
	}

	ctrl.SetQuery(QueryKey{Date: "2026-09-01", GuestCount: 2})
	ctrl.Load(ctx)
	_, err := ctrl.Submit(ctx, create, true, "")
	if !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("submit without slot: err = %v, want ErrIncompleteSelection", err)
	}
	if err.Error() != MsgIncomplete {
		t.Errorf("message = %q, want %q", err.Error(), MsgIncomplete)
	}
	if create.callCount() != 0 {
		t.Error("incomplete submit must not reach the network")
	}
}

func TestSubmitSendsSelection(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}

	create := &fakeCreator{res: &model.Reservation{ID: 42, Status: model.StatusPending}}
	res, err := ctrl.Submit(context.Background(), create, true, "window please")
	if err != nil {
		t.Fatal(err)
	}
	if res.ID != 42 {
		t.Errorf("reservation id = %d, want 42", res.ID)
	}

	req := create.calls[0]
	if req.Restaurant != 3 || req.Date != "2026-09-01" || req.TimeFrom != "18:00" ||
		req.GuestCount != 2 || req.Notes != "window please" {
		t.Errorf("unexpected create payload %+v", req)
	}
	if req.Place == nil || *req.Place != 7 {
		t.Errorf("place = %v, want 7", req.Place)
	}

	if v := ctrl.Snapshot(); v.State != StateSubmitted {
		t.Errorf("state = %q, want %q", v.State, StateSubmitted)
	}
	if _, err := ctrl.Submit(context.Background(), create, true, ""); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit: err = %v, want ErrAlreadySubmitted", err)
	}
	if ctrl.SetQuery(QueryKey{Date: "2026-09-05", GuestCount: 2}) {
		t.Error("submitted flow must not accept a new query")
	}
}

func TestSubmitFailureKeepsFlowOpen(t *testing.T) {
	fetch := &fakeFetcher{resp: map[string]*model.AvailabilityResponse{
		"2026-09-01": avail("2026-09-01", model.TimeSlot{Time: "18:00", Available: true}),
	}}
	ctrl := loadedController(t, fetch, QueryKey{Date: "2026-09-01", GuestCount: 2})
	if err := ctrl.Select(7, "18:00"); err != nil {
		t.Fatal(err)
	}

	create := &fakeCreator{err: errors.New("slot already taken")}
	if _, err := ctrl.Submit(context.Background(), create, true, ""); err == nil {
		t.Fatal("expected submit error")
	}

	v := ctrl.Snapshot()
	if v.State != StateSlotChosen {
		t.Errorf("state = %q after failed submit, want %q", v.State, StateSlotChosen)
	}

	// And a retry works once the upstream recovers.
	create.err = nil
	create.res = &model.Reservation{ID: 9}
	if _, err := ctrl.Submit(context.Background(), create, true, ""); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}
