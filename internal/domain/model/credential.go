package model

import "time"

// Credential is a time-limited bearer token issued by the panel. It is
// owned by the token source; other components only ever see the raw token
// string attached to an outbound request.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the credential can still be used at now, requiring
// at least margin of remaining lifetime. Tokens inside the margin are
// treated as expired so they are renewed before the panel rejects them.
func (c Credential) Valid(now time.Time, margin time.Duration) bool {
	return c.Token != "" && now.Add(margin).Before(c.ExpiresAt)
}
