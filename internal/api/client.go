// Package api is the typed client for the reservation API. Every remote
// call the gateway makes goes through here: bearer tokens are attached
// from the bound session, a 401 triggers exactly one silent refresh and
// replay, and validation error payloads are folded into a single
// human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

// ErrAuthExpired is returned when a call got a 401 and the single refresh
// attempt could not produce a working access token. The session behind the
// call has already been torn down via TokenSource.AuthExpired.
var ErrAuthExpired = errors.New("authentication expired")

// defaultTimeout bounds every remote call; a hung upstream request would
// otherwise pin the caller indefinitely.
const defaultTimeout = 12 * time.Second

// TokenSource supplies the token pair of the session a client is bound to
// and receives the outcome of silent refreshes. A nil TokenSource means
// the client is anonymous and never attaches a bearer.
type TokenSource interface {
	// Tokens returns the current pair. ok is false for anonymous callers.
	Tokens() (model.AuthTokens, bool)
	// RefreshApplied stores a rewritten access token after a successful
	// silent refresh.
	RefreshApplied(access string)
	// AuthExpired is called when refresh failed or the replay still got a
	// 401; the session must be discarded so the user re-authenticates.
	AuthExpired()
}

// Client issues requests against the reservation API. The zero value is
// not usable; construct with New. Clients are cheap to copy: WithTokens
// returns a shallow copy bound to one session while sharing the same
// underlying http.Client.
type Client struct {
	base   string
	hc     *http.Client
	log    *zap.Logger
	tokens TokenSource
}

// New builds an anonymous client for the given API base URL, e.g.
// "http://localhost:8000/api".
func New(base string, log *zap.Logger) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: defaultTimeout},
		log:  log,
	}
}

// WithTokens returns a copy of the client bound to the given session
// tokens. The copy shares the transport with the original.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// Error is a non-2xx response from the reservation API. Fields holds the
// parsed validation map when the body had one; Generic is used when the
// body was not parseable.
type Error struct {
	Status  int
	Fields  map[string][]string
	Generic string
}

// Error joins field validation messages with ". " in stable key order, or
// falls back to the generic message.
func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var msgs []string
		for _, k := range keys {
			msgs = append(msgs, e.Fields[k]...)
		}
		return strings.Join(msgs, ". ")
	}
	if e.Generic != "" {
		return e.Generic
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}

// do performs one JSON request/response round trip, including the
// single-refresh-on-401 discipline. out may be nil for calls whose body is
// ignored.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, "application/json", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// send issues the request, attaching the bearer when a session is bound,
// and retries exactly once after a successful silent refresh. retried
// guards against refresh loops: a second 401 propagates as ErrAuthExpired.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string, retried bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	if len(payload) > 0 {
		req.Header.Set("Content-Type", contentType)
	}

	authed := false
	if c.tokens != nil {
		if pair, ok := c.tokens.Tokens(); ok && pair.Access != "" {
			req.Header.Set("Authorization", "Bearer "+pair.Access)
			authed = true
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reservation api unreachable: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized || !authed {
		return resp, nil
	}
	// 401 on an authenticated call: one silent refresh, then replay.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if retried {
		c.tokens.AuthExpired()
		return nil, ErrAuthExpired
	}
	pair, _ := c.tokens.Tokens()
	access, err := c.RefreshAccess(ctx, pair.Refresh)
	if err != nil {
		c.tokens.AuthExpired()
		return nil, ErrAuthExpired
	}
	c.tokens.RefreshApplied(access)
	return c.send(ctx, method, path, query, payload, contentType, true)
}

// RefreshAccess exchanges a refresh token for a new access token via
// POST /auth/refresh/. It never rotates the refresh token.
func (c *Client) RefreshAccess(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", errors.New("no refresh token")
	}
	body, _ := json.Marshal(map[string]string{"refresh": refresh})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/refresh/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}
	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}
	if c.log != nil {
		c.log.Debug("access token silently refreshed")
	}
	return out.Access, nil
}

// decodeResponse maps a completed response onto out, turning non-2xx
// statuses into *Error values with parsed validation fields when present.
func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return &Error{Status: resp.StatusCode, Fields: parseFieldErrors(raw)}
}

// parseFieldErrors decodes the API's {field: string|[]string} validation
// shape. Anything else yields nil so the caller falls back to a generic
// message.
func parseFieldErrors(raw []byte) map[string][]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(obj))
	for k, v := range obj {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			fields[k] = list
			continue
		}
		var single string
		if err := json.Unmarshal(v, &single); err == nil {
			fields[k] = []string{single}
			continue
		}
		return nil
	}
	return fields
}

// doMultipart performs a multipart/form-data request (image uploads). The
// same bearer and refresh rules apply as for JSON calls.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, nil, buf.Bytes(), mw.FormDataContentType(), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}
