package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bronla/gateway/internal/model"
)

// RestaurantFilter narrows the public restaurant collection. Zero values
// are omitted from the query; the server owns all filtering, including
// text search matching.
type RestaurantFilter struct {
	Type    string
	Search  string
	Feature int64
}

func (f RestaurantFilter) query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Feature != 0 {
		q.Set("feature", strconv.FormatInt(f.Feature, 10))
	}
	return q
}

// Restaurants fetches the public collection for the browse view.
func (c *Client) Restaurants(ctx context.Context, f RestaurantFilter) (*model.Paginated[model.Restaurant], error) {
	var out model.Paginated[model.Restaurant]
	if err := c.do(ctx, http.MethodGet, "/restaurants/", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Restaurant fetches one venue's detail page payload by slug.
func (c *Client) Restaurant(ctx context.Context, slug string) (*model.Restaurant, error) {
	var out model.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants/"+url.PathEscape(slug)+"/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Places lists a restaurant's seating units.
func (c *Client) Places(ctx context.Context, slug string) ([]model.Place, error) {
	var out []model.Place
	if err := c.do(ctx, http.MethodGet, "/restaurants/"+url.PathEscape(slug)+"/places/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Features lists the filterable amenity tags.
func (c *Client) Features(ctx context.Context) ([]model.Feature, error) {
	var out []model.Feature
	if err := c.do(ctx, http.MethodGet, "/restaurants/features/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Menu returns a restaurant's menu grouped by category.
func (c *Client) Menu(ctx context.Context, slug string) ([]model.MenuCategory, error) {
	var out []model.MenuCategory
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%s/menu/", url.PathEscape(slug)), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
