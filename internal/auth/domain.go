package auth

import "time"

// ActiveToken is the single live bearer token for an account. Reissued
// lazily on login when expired or malformed; deleting the row revokes the
// session because authentication requires an exact match with this token.
type ActiveToken struct {
	UserID    int64
	Token     string
	CreatedAt time.Time
}
