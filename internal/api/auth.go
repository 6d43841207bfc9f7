package api

import (
	"context"
	"net/http"

	"github.com/bronla/gateway/internal/model"
)

// RegisterRequest is the body of POST /auth/register/.
type RegisterRequest struct {
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Phone           string `json:"phone,omitempty"`
}

// Register creates an account and returns the user plus a fresh token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for the user and a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the given refresh token server-side.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout/", nil, map[string]string{"refresh": refresh}, nil)
}

// Me returns the account behind the bound session's access token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// UpdateMe patches the caller's profile.
func (c *Client) UpdateMe(ctx context.Context, upd ProfileUpdate) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPatch, "/auth/me/", nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
