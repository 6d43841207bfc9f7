package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the gateway session cookie. Its value is an HS256 JWT
// carrying only the session id; all sensitive state stays server-side.
const CookieName = "bronla_session"

// Cookies signs and verifies the session cookie payload.
type Cookies struct {
	secret []byte
	ttl    time.Duration
}

// NewCookies builds a signer with the given secret and cookie lifetime.
func NewCookies(secret string, ttl time.Duration) *Cookies {
	return &Cookies{secret: []byte(secret), ttl: ttl}
}

// Issue signs a cookie value for the session id.
func (c *Cookies) Issue(sessionID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse extracts the session id from a cookie value. Tampered, expired or
// foreign cookies read as anonymous.
func (c *Cookies) Parse(value string) (string, bool) {
	tok, err := jwt.Parse(value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}

// AccessStale reports whether a reservation API access token is expired or
// about to expire. The token is issued by the remote server, so only its
// claims are inspected, never its signature. Unparseable tokens read as
// stale so the caller refreshes instead of sending a doomed request.
func AccessStale(access string, within time.Duration) bool {
	if access == "" {
		return true
	}
	var claims jwt.MapClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false // no exp claim: let the server decide
	}
	return time.Until(exp.Time) < within
}
