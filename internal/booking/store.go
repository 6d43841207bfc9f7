package booking

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// flowTTL is how long an untouched flow survives. Availability data is
// ephemeral, so abandoned flows are simply dropped and rebuilt on the next
// visit.
const flowTTL = 30 * time.Minute

type flowEntry struct {
	ctrl    *Controller
	touched time.Time
}

// FlowStore hands out one Controller per (browser, restaurant) pair. It is
// a plain mutex-guarded map: flows are small, per-instance state whose
// loss only costs the user a re-fetch.
type FlowStore struct {
	fetch Fetcher
	log   *zap.Logger

	mu    sync.Mutex
	flows map[string]*flowEntry
}

// NewFlowStore builds the store around the shared availability fetcher.
func NewFlowStore(fetch Fetcher, log *zap.Logger) *FlowStore {
	return &FlowStore{
		fetch: fetch,
		log:   log,
		flows: make(map[string]*flowEntry),
	}
}

// Get returns the flow for a browser and restaurant, creating it when
// absent. browserID identifies the visitor (session id or anonymous
// browser cookie); restaurantID is needed the first time to construct the
// controller.
func (s *FlowStore) Get(browserID, slug string, restaurantID int64) *Controller {
	key := browserID + "|" + slug
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	if e, ok := s.flows[key]; ok {
		e.touched = now
		return e.ctrl
	}
	ctrl := NewController(slug, restaurantID, s.fetch, s.log)
	s.flows[key] = &flowEntry{ctrl: ctrl, touched: now}
	return ctrl
}

// Drop removes the flow after a completed submission so a fresh booking
// starts from NoDate.
func (s *FlowStore) Drop(browserID, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, browserID+"|"+slug)
}

// evictLocked clears idle flows. Called under the lock on every access;
// the map stays small enough that a linear sweep is fine.
func (s *FlowStore) evictLocked(now time.Time) {
	for k, e := range s.flows {
		if now.Sub(e.touched) > flowTTL {
			delete(s.flows, k)
		}
	}
}
