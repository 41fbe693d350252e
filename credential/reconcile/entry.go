package reconcile

import (
	"strings"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/values"
)

// Entry is one credential to ensure exists in the credentials file.
// Username and Token are optional literal values; nil means "look elsewhere".
type Entry struct {
	Keys     values.PropertyKeys
	Username *string
	Token    *string
}

// DefaultEntry targets the well-known keys.
func DefaultEntry() Entry {
	return Entry{Keys: values.DefaultPropertyKeys()}
}

// PrefixedEntry targets "<prefix>.username" and "<prefix>.token".
func PrefixedEntry(prefix string) Entry {
	return Entry{Keys: values.PrefixedKeys(prefix)}
}

// WithUsername returns a copy of e carrying a literal username.
func (e Entry) WithUsername(username string) Entry {
	e.Username = &username
	return e
}

// WithToken returns a copy of e carrying a literal token.
func (e Entry) WithToken(token string) Entry {
	e.Token = &token
	return e
}

// normalized fills in default keys for a zero entry.
func (e Entry) normalized() Entry {
	if e.Keys.IsZero() {
		e.Keys = values.DefaultPropertyKeys()
	}
	return e
}

// validate rejects an entry that names only one of its two keys.
func (e Entry) validate() error {
	if strings.TrimSpace(e.Keys.UsernameKey) == "" {
		return &entities.EmptyValueError{Key: "username key"}
	}
	if strings.TrimSpace(e.Keys.TokenKey) == "" {
		return &entities.EmptyValueError{Key: "token key"}
	}
	return nil
}
