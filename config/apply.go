package config

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/privrepo"
	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/providers"
	"github.com/reglet-dev/privrepo/credential/reconcile"
	"github.com/reglet-dev/privrepo/credential/values"
)

// Configure declares the file's repositories on p and copies the store
// settings onto its credential store action.
func (f *File) Configure(p *privrepo.Plugin) error {
	p.Repositories().SetAllowEmptyCredentials(f.AllowEmptyCredentials)
	p.PluginRepositories().SetAllowEmptyCredentials(f.AllowEmptyCredentials)

	if err := declare(p.Repositories(), f.Repositories); err != nil {
		return fmt.Errorf("repositories: %w", err)
	}
	if err := declare(p.PluginRepositories(), f.PluginRepositories); err != nil {
		return fmt.Errorf("pluginRepositories: %w", err)
	}

	if f.Store == nil {
		return nil
	}
	task := p.StoreCredentials()
	if f.Store.OutputDirectory != "" {
		task.OutputDirectory = f.Store.OutputDirectory
	}
	if f.Store.Prompts != nil {
		task.Prompts = *f.Store.Prompts
	}
	task.AllowLegacyFallback = task.AllowLegacyFallback || f.Store.AllowLegacyFallback
	for _, e := range f.Store.Entries {
		task.AddEntry(reconcile.Entry{
			Keys:     values.PrefixedKeys(e.Prefix),
			Username: e.Username,
			Token:    e.Token,
		})
	}
	return nil
}

func declare(cfg *privrepo.Configuration, repos []Repository) error {
	for _, r := range repos {
		var opts []privrepo.RepositoryOption
		if r.Credentials != nil {
			opt, err := r.Credentials.option()
			if err != nil {
				return err
			}
			opts = append(opts, opt)
		}

		var err error
		if r.GPR != "" {
			err = cfg.GPR(r.GPR, opts...)
		} else {
			err = cfg.Repository(r.URL, opts...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Credentials) option() (privrepo.RepositoryOption, error) {
	switch c.Provider {
	case ProviderNone:
		return privrepo.WithoutCredentials(), nil
	case ProviderStatic:
		if strings.TrimSpace(c.Token) == "" {
			return nil, &entities.EmptyValueError{Key: "credentials.token"}
		}
		return privrepo.WithProvider(providers.NewStatic(c.Username, c.Token)), nil
	default:
		keys := values.PrefixedKeys(c.Prefix)
		if c.UsernameKey != "" {
			keys = values.PropertyKeys{UsernameKey: c.UsernameKey, TokenKey: c.TokenKey}
		}
		return privrepo.WithPropertyKeys(keys), nil
	}
}
