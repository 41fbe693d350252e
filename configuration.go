package privrepo

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/providers"
	"github.com/reglet-dev/privrepo/credential/values"
	"github.com/reglet-dev/privrepo/netutil"
)

// Configuration collects repository declarations for one scope.
type Configuration struct {
	scope    string
	cache    *providers.Cache
	registry *entities.Registry
	logger   *slog.Logger
}

func newConfiguration(scope string, cache *providers.Cache, logger *slog.Logger) *Configuration {
	return &Configuration{
		scope:    scope,
		cache:    cache,
		registry: entities.NewRegistry(),
		logger:   logger,
	}
}

// repositoryConfig holds per-declaration settings.
type repositoryConfig struct {
	provider ports.CredentialProvider
}

// RepositoryOption configures a single repository declaration.
type RepositoryOption func(*Configuration, *repositoryConfig)

// WithProvider sets the credential provider for the repository.
func WithProvider(p ports.CredentialProvider) RepositoryOption {
	return func(_ *Configuration, rc *repositoryConfig) {
		if p != nil {
			rc.provider = p
		}
	}
}

// WithPropertyKeys reads credentials from the given properties, sharing
// one provider per key pair.
func WithPropertyKeys(keys values.PropertyKeys) RepositoryOption {
	return func(c *Configuration, rc *repositoryConfig) {
		rc.provider = c.cache.Property(keys)
	}
}

// WithoutCredentials marks the repository as needing no authentication.
func WithoutCredentials() RepositoryOption {
	return WithProvider(providers.NewNoOp())
}

// Repository declares a repository. Without options its credentials come
// from the well-known properties. Declaring a URL twice keeps the first.
func (c *Configuration) Repository(rawURL string, opts ...RepositoryOption) error {
	u, err := netutil.ParseRepositoryURL(rawURL)
	if err != nil {
		return err
	}

	rc := repositoryConfig{}
	for _, opt := range opts {
		opt(c, &rc)
	}
	if rc.provider == nil {
		rc.provider = c.cache.Default()
	}

	added, err := c.registry.Add(entities.Repository{URL: u, Provider: rc.provider})
	if err != nil {
		return fmt.Errorf("declaring repository: %w", err)
	}
	if !added {
		c.logger.Debug("repository already declared", "scope", c.scope, "url", netutil.StripCredentials(rawURL))
	}
	return nil
}

// GPR declares the GitHub Packages repository for "owner/repository".
func (c *Configuration) GPR(ownerAndRepository string, opts ...RepositoryOption) error {
	return c.Repository(netutil.GPR(ownerAndRepository), opts...)
}

// SetAllowEmptyCredentials sets the scope-wide fallback used when the
// allow-empty-credentials property is unset.
func (c *Configuration) SetAllowEmptyCredentials(allow bool) {
	c.registry.AllowEmptyCredentials = allow
}

// AllowEmptyCredentials reports the scope-wide fallback.
func (c *Configuration) AllowEmptyCredentials() bool {
	return c.registry.AllowEmptyCredentials
}

// Entries returns the declared repositories in declaration order.
func (c *Configuration) Entries() []entities.Repository {
	return c.registry.Entries()
}
