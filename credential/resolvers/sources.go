// Package resolvers provides property lookup sources and the project and
// global lookup chains built from them.
package resolvers

import (
	"fmt"
	"os"

	"github.com/magiconair/properties"

	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/services"
)

// MapResolver answers from an in-memory set of properties.
type MapResolver struct {
	services.BaseResolver
	values map[string]string
}

// NewMapResolver creates a map-backed resolver. The map is copied.
func NewMapResolver(values map[string]string) *MapResolver {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &MapResolver{values: cp}
}

// Resolve checks the map, otherwise delegates to next.
func (r *MapResolver) Resolve(name string) (string, bool) {
	if v, ok := r.values[name]; ok {
		return v, true
	}
	return r.ResolveNext(name)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvResolver answers from environment variables, using the property name
// verbatim as the variable name.
type EnvResolver struct {
	services.BaseResolver
	lookup LookupFunc
}

// NewEnvResolver creates an environment resolver. A nil lookup uses os.LookupEnv.
func NewEnvResolver(lookup LookupFunc) *EnvResolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvResolver{lookup: lookup}
}

// Resolve checks the environment, otherwise delegates to next.
func (r *EnvResolver) Resolve(name string) (string, bool) {
	if v, ok := r.lookup(name); ok {
		return v, true
	}
	return r.ResolveNext(name)
}

// PropertiesFileResolver answers from a Java-style properties file,
// typically the credentials file written by the reconciler.
type PropertiesFileResolver struct {
	services.BaseResolver
	path  string
	props *properties.Properties
}

// NewPropertiesFileResolver loads path. A missing file resolves nothing.
func NewPropertiesFileResolver(path string) (*PropertiesFileResolver, error) {
	props, err := properties.LoadFiles([]string{path}, properties.UTF8, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties file %s: %w", path, err)
	}
	// Values are taken literally; ${...} is not expanded.
	props.DisableExpansion = true
	return &PropertiesFileResolver{path: path, props: props}, nil
}

// Path returns the file the resolver was loaded from.
func (r *PropertiesFileResolver) Path() string {
	return r.path
}

// Resolve checks the file, otherwise delegates to next.
func (r *PropertiesFileResolver) Resolve(name string) (string, bool) {
	if v, ok := r.props.Get(name); ok {
		return v, true
	}
	return r.ResolveNext(name)
}

// SourceResolver adapts any ports.PropertyResolver into a chain link
// without disturbing links the source may already have.
type SourceResolver struct {
	services.BaseResolver
	source ports.PropertyResolver
}

// Link wraps source as a chain link. A nil source resolves nothing.
func Link(source ports.PropertyResolver) *SourceResolver {
	return &SourceResolver{source: source}
}

// Resolve checks the wrapped source, otherwise delegates to next.
func (r *SourceResolver) Resolve(name string) (string, bool) {
	if r.source != nil {
		if v, ok := r.source.Resolve(name); ok {
			return v, true
		}
	}
	return r.ResolveNext(name)
}
