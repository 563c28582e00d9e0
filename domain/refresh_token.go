package domain

import "strings"

// RefreshToken is the parsed form of the composite refresh token. The
// wire format is "<sessionID>.<secret>"; secrets are hex so they can
// never contain the delimiter, but parsing still splits on the first
// '.' only so a corrupted secret is never re-split.
type RefreshToken struct {
	SessionID string
	Secret    string
}

// ParseRefreshToken splits the composite wire form. Malformed input
// fails with ErrTokenMalformed before any store access.
func ParseRefreshToken(s string) (RefreshToken, error) {
	id, secret, ok := strings.Cut(s, ".")
	if !ok || id == "" || secret == "" {
		return RefreshToken{}, ErrTokenMalformed
	}
	return RefreshToken{SessionID: id, Secret: secret}, nil
}

// String serializes back to the wire form.
func (t RefreshToken) String() string {
	return t.SessionID + "." + t.Secret
}
