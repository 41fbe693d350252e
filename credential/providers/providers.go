// Package providers implements the credential provider variants.
package providers

import (
	"strings"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/values"
)

// NoOp never supplies credentials. Use it for repositories that need no
// authentication, such as cache-only mirrors.
type NoOp struct{}

// NewNoOp creates a provider that always reports no credentials.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Credentials always returns nil.
func (*NoOp) Credentials(ports.PropertyResolver) (*values.Pair, error) {
	return nil, nil
}

// Static supplies a fixed pair and ignores properties.
type Static struct {
	pair values.Pair
}

// NewStatic creates a provider for a fixed username and token.
func NewStatic(username, token string) *Static {
	return &Static{pair: values.NewPair(username, token)}
}

// Credentials returns the fixed pair.
func (s *Static) Credentials(ports.PropertyResolver) (*values.Pair, error) {
	p := s.pair
	return &p, nil
}

// Property reads the username and token from named properties.
type Property struct {
	keys values.PropertyKeys
}

// NewProperty creates a property provider. Prefer Cache.Property so that
// equal keys share one instance.
func NewProperty(keys values.PropertyKeys) *Property {
	return &Property{keys: keys}
}

// Keys returns the property names the provider reads.
func (p *Property) Keys() values.PropertyKeys {
	return p.keys
}

// Credentials resolves the pair. The username may be unset; the token may
// not, unless allow-empty-credentials resolves to true, in which case the
// provider reports no credentials.
func (p *Property) Credentials(props ports.PropertyResolver) (*values.Pair, error) {
	username, _ := props.Resolve(p.keys.UsernameKey)
	token, ok := props.Resolve(p.keys.TokenKey)
	if ok && strings.TrimSpace(token) != "" {
		pair := values.NewPair(username, token)
		return &pair, nil
	}

	if allow, set := props.Resolve(values.AllowEmptyCredentialsProperty); set && values.ParseBool(allow) {
		return nil, nil
	}

	err := &entities.MissingCredentialError{UsernameKey: p.keys.UsernameKey, TokenKey: p.keys.TokenKey}
	if ok {
		err.Reason = "token is blank"
	}
	return nil, err
}
