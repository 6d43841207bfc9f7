package model

// User mirrors the account record returned by the reservation API. The
// gateway never stores users itself; it only carries them inside browser
// sessions and proxied responses. Email is null for phone-only accounts,
// Role is one of "user", "owner" or "admin", and CreatedAt stays the ISO
// 8601 string the API serves.
type User struct {
	ID         int64   `json:"id"`
	Phone      string  `json:"phone"`
	FullName   string  `json:"full_name"`
	Email      *string `json:"email"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	CreatedAt  string  `json:"created_at"`
}

// Role values accepted by the reservation API.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// AuthTokens is the access/refresh pair issued on login and register.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the payload of successful login and register calls.
type AuthResponse struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}
