package values

import "fmt"

// Pair is an immutable username/token credential.
// The username may be blank; a resolved Pair always carries a token.
type Pair struct {
	username string
	token    string
}

// NewPair creates a credential pair.
func NewPair(username, token string) Pair {
	return Pair{username: username, token: token}
}

// Username returns the identity half of the pair.
func (p Pair) Username() string {
	return p.username
}

// Token returns the secret half of the pair.
func (p Pair) Token() string {
	return p.token
}

// HasUsername reports whether the username is non-blank.
func (p Pair) HasUsername() bool {
	return p.username != ""
}

// Equals checks if two pairs hold the same values.
func (p Pair) Equals(other Pair) bool {
	return p.username == other.username && p.token == other.token
}

// String renders the pair with the token masked so it is safe to log.
func (p Pair) String() string {
	return fmt.Sprintf("%s:%s", p.username, MaskToken(p.token))
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
