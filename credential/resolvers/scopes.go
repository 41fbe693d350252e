package resolvers

import (
	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/services"
)

// NewProjectResolver returns the project-scoped resolver: a single
// configuration namespace.
func NewProjectResolver(project ports.PropertyResolver) ports.PropertyResolver {
	return Link(project)
}

// NewGlobalResolver returns the settings-scoped resolver. It tries a build
// property, then a system property, then an environment variable, and
// returns the first present value.
func NewGlobalResolver(build, system, env ports.PropertyResolver) ports.PropertyResolver {
	return services.Chain(Link(build), Link(system), Link(env))
}

// WithDefaults appends defaults after base; they answer only when base
// has no value for the name.
func WithDefaults(base ports.PropertyResolver, defaults map[string]string) ports.PropertyResolver {
	if len(defaults) == 0 {
		return base
	}
	return services.Chain(Link(base), NewMapResolver(defaults))
}
