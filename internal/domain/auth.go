package domain

import "time"

// Session describes a minted session token. The token itself is held by the client;
// the server only keeps a revocation marker after sign-out.
type Session struct {
	ID        string
	SubjectID string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
