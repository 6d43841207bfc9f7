// Package browse serves the map/list discovery view: the restaurant
// collection with type/search/feature filters and the pin set for the map.
// Filtering and search matching belong to the reservation API; this layer
// only forwards parameters and keeps a short-lived snapshot of the full
// collection for the map endpoint.
package browse

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/model"
)

const (
	snapshotTTL     = time.Minute
	refreshDebounce = 2 * time.Second
)

// Pin is one map marker extracted from the collection.
type Pin struct {
	ID        int64    `json:"id"`
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Address   string   `json:"address"`
	IsOpen    bool     `json:"is_open"`
	Rating    *float64 `json:"rating"`
	MainImage string   `json:"main_image,omitempty"`
}

// Lister is the browse slice of the API client.
type Lister interface {
	Restaurants(ctx context.Context, f api.RestaurantFilter) (*model.Paginated[model.Restaurant], error)
	Features(ctx context.Context) ([]model.Feature, error)
}

// Service answers browse queries. The unfiltered collection is cached in
// memory for the map; owner/admin mutations flowing through the gateway
// call Invalidate, and a debouncer folds bursts of edits into a single
// refetch.
type Service struct {
	client Lister
	log    *zap.Logger

	mu        sync.RWMutex
	snapshot  []model.Restaurant
	fetchedAt time.Time

	refresh *Debouncer
}

// NewService builds the browse service over the anonymous API client.
func NewService(client Lister, log *zap.Logger) *Service {
	s := &Service{client: client, log: log}
	s.refresh = NewDebouncer(refreshDebounce, s.refreshSnapshot)
	return s
}

// List forwards a filtered collection query to the API.
func (s *Service) List(ctx context.Context, f api.RestaurantFilter) (*model.Paginated[model.Restaurant], error) {
	return s.client.Restaurants(ctx, f)
}

// Features forwards the amenity tag list.
func (s *Service) Features(ctx context.Context) ([]model.Feature, error) {
	return s.client.Features(ctx)
}

// Pins returns map markers from the snapshot, refreshing it synchronously
// when it is missing or older than its TTL.
func (s *Service) Pins(ctx context.Context) ([]Pin, error) {
	s.mu.RLock()
	fresh := s.snapshot != nil && time.Since(s.fetchedAt) < snapshotTTL
	collection := s.snapshot
	s.mu.RUnlock()

	if !fresh {
		resp, err := s.client.Restaurants(ctx, api.RestaurantFilter{})
		if err != nil {
			if collection == nil {
				return nil, err
			}
			// Serve the stale snapshot rather than an empty map.
			s.log.Warn("pin refresh failed, serving stale snapshot", zap.Error(err))
		} else {
			collection = resp.Results
			s.mu.Lock()
			s.snapshot = collection
			s.fetchedAt = time.Now()
			s.mu.Unlock()
		}
	}

	pins := make([]Pin, 0, len(collection))
	for i := range collection {
		r := &collection[i]
		lat, err1 := strconv.ParseFloat(r.Latitude, 64)
		lng, err2 := strconv.ParseFloat(r.Longitude, 64)
		if err1 != nil || err2 != nil {
			continue // unmappable venue, skip the pin
		}
		pins = append(pins, Pin{
			ID:        r.ID,
			Slug:      r.Slug,
			Name:      r.Name,
			Type:      r.Type,
			Latitude:  lat,
			Longitude: lng,
			Address:   r.Address,
			IsOpen:    r.IsOpen,
			Rating:    r.Rating,
			MainImage: r.MainImage,
		})
	}
	return pins, nil
}

// Invalidate marks the snapshot dirty after a mutation. The actual refetch
// is debounced so a burst of edits costs one API call.
func (s *Service) Invalidate() {
	s.refresh.Trigger()
}

// Close stops the pending refresh timer.
func (s *Service) Close() {
	s.refresh.Stop()
}

func (s *Service) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	resp, err := s.client.Restaurants(ctx, api.RestaurantFilter{})
	if err != nil {
		s.log.Warn("snapshot refresh failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.snapshot = resp.Results
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}
