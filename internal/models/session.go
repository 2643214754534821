package models

import "time"

// Session is an operator login held by the panel. The bearer token inside is
// issued and validated by the festival backend; the panel only stores it and
// tracks its lifetime.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
