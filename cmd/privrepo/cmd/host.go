package cmd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/values"
)

// actionRegistry is the CLI's stand-in for the host task infrastructure.
type actionRegistry map[string]ports.ActionFunc

func (a actionRegistry) RegisterAction(name string, fn ports.ActionFunc) error {
	if _, ok := a[name]; ok {
		return fmt.Errorf("action %q already registered", name)
	}
	a[name] = fn
	return nil
}

func (a actionRegistry) run(ctx context.Context, name string) error {
	fn, ok := a[name]
	if !ok {
		return fmt.Errorf("action %q not registered", name)
	}
	return fn(ctx)
}

// resolvedRepository is one registered repository as reported by resolve.
type resolvedRepository struct {
	Scope         string `yaml:"scope"`
	URL           string `yaml:"url"`
	Authenticated bool   `yaml:"authenticated"`
	Username      string `yaml:"username,omitempty"`
	Token         string `yaml:"token,omitempty"`
}

// recordingRegistrar collects registrations instead of configuring a build.
type recordingRegistrar struct {
	scope string
	repos []resolvedRepository
}

func (r *recordingRegistrar) Register(_ context.Context, u *url.URL, creds *values.Pair) error {
	rr := resolvedRepository{Scope: r.scope, URL: u.String(), Authenticated: creds != nil}
	if creds != nil {
		rr.Username = creds.Username()
		rr.Token = values.MaskToken(creds.Token())
	}
	r.repos = append(r.repos, rr)
	return nil
}
