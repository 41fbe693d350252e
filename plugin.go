// Package privrepo declares private package repositories and registers
// them with the host build system, resolving each repository's
// credentials from pluggable providers.
package privrepo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/providers"
	"github.com/reglet-dev/privrepo/credential/reconcile"
	"github.com/reglet-dev/privrepo/credential/resolvers"
	"github.com/reglet-dev/privrepo/credential/values"
	"github.com/reglet-dev/privrepo/netutil"
)

// Scope names used in logs.
const (
	ScopeProject  = "project"
	ScopeSettings = "settings"
)

// Plugin is the lifecycle root. It owns the provider cache and the
// repository declarations of both scopes.
type Plugin struct {
	cache              *providers.Cache
	repositories       *Configuration
	pluginRepositories *Configuration
	store              *StoreTask
	reconcileOpts      []reconcile.Option
	logger             *slog.Logger
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCache shares a provider cache between plugin instances.
func WithCache(c *providers.Cache) Option {
	return func(p *Plugin) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithReconcileOptions passes extra options to the credential store action,
// e.g. a prompter or environment lookup.
func WithReconcileOptions(opts ...reconcile.Option) Option {
	return func(p *Plugin) { p.reconcileOpts = append(p.reconcileOpts, opts...) }
}

// New creates a Plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = providers.NewCache()
	}
	p.repositories = newConfiguration(ScopeProject, p.cache, p.logger)
	p.pluginRepositories = newConfiguration(ScopeSettings, p.cache, p.logger)
	p.store = newStoreTask(p.logger, p.reconcileOpts)
	return p
}

// Repositories returns the build-time declarations.
func (p *Plugin) Repositories() *Configuration {
	return p.repositories
}

// PluginRepositories returns the bootstrap declarations.
func (p *Plugin) PluginRepositories() *Configuration {
	return p.pluginRepositories
}

// StoreCredentials returns the settings of the credential store action.
func (p *Plugin) StoreCredentials() *StoreTask {
	return p.store
}

// PropertyProvider returns the shared provider for keys.
func (p *Plugin) PropertyProvider(keys values.PropertyKeys) *providers.Property {
	return p.cache.Property(keys)
}

// Apply installs the plugin into the host context.
func (p *Plugin) Apply(ctx context.Context, target Target) error {
	switch t := target.(type) {
	case *ProjectTarget:
		if t != nil {
			return p.applyProject(ctx, t)
		}
	case *SettingsTarget:
		if t != nil {
			return p.applySettings(ctx, t)
		}
	}
	return &entities.InvalidProviderTargetError{Target: target}
}

func (p *Plugin) applyProject(ctx context.Context, t *ProjectTarget) error {
	if t.Actions != nil {
		err := t.Actions.RegisterAction(entities.ReconcileAction, func(ctx context.Context) error {
			_, err := p.store.Run(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("registering %s action: %w", entities.ReconcileAction, err)
		}
	}

	// Credentials may not exist yet when the store action is what was asked for.
	if slices.Contains(t.RequestedActions, entities.ReconcileAction) {
		if len(t.RequestedActions) > 1 {
			p.logger.Warn("run the credential store action on its own; other actions will run without private repositories",
				"action", entities.ReconcileAction, "requested", t.RequestedActions)
		}
		p.logger.Info("skipping private repository registration", "scope", ScopeProject)
		return nil
	}

	return p.register(ctx, ScopeProject, p.repositories, resolvers.NewProjectResolver(t.Properties), t.Registrar)
}

func (p *Plugin) applySettings(ctx context.Context, t *SettingsTarget) error {
	props := resolvers.NewGlobalResolver(t.Build, t.System, t.Env)
	return p.register(ctx, ScopeSettings, p.pluginRepositories, props, t.Registrar)
}

// register resolves credentials for every declared repository, in
// declaration order, and hands them to the host.
func (p *Plugin) register(
	ctx context.Context,
	scope string,
	cfg *Configuration,
	props ports.PropertyResolver,
	registrar ports.RepositoryRegistrar,
) error {
	if registrar == nil {
		return fmt.Errorf("%s: repository registrar is required", scope)
	}
	if cfg.AllowEmptyCredentials() {
		props = resolvers.WithDefaults(props, map[string]string{
			values.AllowEmptyCredentialsProperty: "true",
		})
	}

	entries := cfg.Entries()
	blankUsername := false
	for _, repo := range entries {
		safeURL := netutil.StripCredentials(repo.URL.String())

		creds, err := repo.Provider.Credentials(props)
		if err != nil {
			return fmt.Errorf("resolving credentials for %s: %w", safeURL, err)
		}
		if creds != nil && !creds.HasUsername() {
			blankUsername = true
		}

		if err := registrar.Register(ctx, repo.URL, creds); err != nil {
			return fmt.Errorf("registering %s: %w", safeURL, err)
		}
		p.logger.Debug("registered private repository", "scope", scope, "url", safeURL, "authenticated", creds != nil)
	}

	if blankUsername {
		p.logger.Warn("one or more private repositories have a blank username; some hosts reject anonymous identities",
			"scope", scope)
	}
	p.logger.Info("configured private repositories", "scope", scope, "count", len(entries))
	return nil
}
