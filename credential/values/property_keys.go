package values

import "strings"

// Well-known property names.
const (
	// DefaultPrefix is the key prefix used when an entry names none.
	DefaultPrefix = "private-repository.github"

	// UsernameProperty is the default property holding the username.
	UsernameProperty = DefaultPrefix + ".username"

	// TokenProperty is the default property holding the token.
	TokenProperty = DefaultPrefix + ".token"

	// AllowEmptyCredentialsProperty overrides the registry's empty-credential policy.
	AllowEmptyCredentialsProperty = "com.moneyforward.allow-empty-credentials"
)

// Environment variables read during reconciliation.
const (
	UsernameEnv = "GRADLE_GITHUB_USERNAME"
	TokenEnv    = "GRADLE_GITHUB_TOKEN"

	// LegacyCredentialsEnv holds "owner:token" in the bundler format.
	LegacyCredentialsEnv = "BUNDLE_RUBYGEMS__PKG__GITHUB__COM"
)

// PropertyKeys names the two properties a credential is stored under.
// It is comparable and used as a map key by the provider cache.
type PropertyKeys struct {
	UsernameKey string
	TokenKey    string
}

// DefaultPropertyKeys returns the well-known key pair.
func DefaultPropertyKeys() PropertyKeys {
	return PropertyKeys{UsernameKey: UsernameProperty, TokenKey: TokenProperty}
}

// PrefixedKeys derives "<prefix>.username" and "<prefix>.token".
// A blank prefix yields the defaults.
func PrefixedKeys(prefix string) PropertyKeys {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return DefaultPropertyKeys()
	}
	return PropertyKeys{
		UsernameKey: prefix + ".username",
		TokenKey:    prefix + ".token",
	}
}

// IsZero returns true if neither key is set.
func (k PropertyKeys) IsZero() bool {
	return k.UsernameKey == "" && k.TokenKey == ""
}

// String returns the keys joined by a slash.
func (k PropertyKeys) String() string {
	return k.UsernameKey + "/" + k.TokenKey
}

// ParseBool interprets a property value the way the host does:
// only a case-insensitive "true" is true.
func ParseBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
