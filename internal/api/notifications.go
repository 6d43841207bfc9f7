package api

import (
	"context"
	"net/http"

	"github.com/bronla/gateway/internal/model"
)

// VapidPublicKey fetches the server's Web Push application key. The browser
// needs it to create a push subscription.
func (c *Client) VapidPublicKey(ctx context.Context) (string, error) {
	var out struct {
		PublicKey string `json:"public_key"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/vapid-public-key/", nil, nil, &out); err != nil {
		return "", err
	}
	return out.PublicKey, nil
}

// SubscribePush registers a browser push subscription for the caller.
func (c *Client) SubscribePush(ctx context.Context, sub model.PushSubscription) error {
	return c.do(ctx, http.MethodPost, "/notifications/subscribe/", nil, sub, nil)
}

// UnsubscribePush removes a subscription by its endpoint.
func (c *Client) UnsubscribePush(ctx context.Context, endpoint string) error {
	body := map[string]string{"endpoint": endpoint}
	return c.do(ctx, http.MethodPost, "/notifications/unsubscribe/", nil, body, nil)
}
