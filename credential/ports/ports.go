// Package ports defines the boundaries between credential resolution and
// its collaborators: property sources, the credentials file, the operator
// and the host build system.
package ports

import (
	"context"
	"net/url"

	"github.com/reglet-dev/privrepo/credential/values"
)

// PropertyResolver looks up a named setting.
type PropertyResolver interface {
	// Resolve returns the value and true if the name is set.
	Resolve(name string) (string, bool)
}

// PropertyResolverFunc adapts a function to PropertyResolver.
type PropertyResolverFunc func(name string) (string, bool)

// Resolve calls f(name).
func (f PropertyResolverFunc) Resolve(name string) (string, bool) {
	return f(name)
}

// CredentialProvider obtains the credential for a repository.
// A nil pair with a nil error means no credentials are needed.
type CredentialProvider interface {
	Credentials(props PropertyResolver) (*values.Pair, error)
}

// Prompter asks the operator for one line of text.
// Implementations block until input arrives.
type Prompter interface {
	Prompt(text string) (string, error)
}

// CredentialStore is the raw, append-only view of the credentials file.
type CredentialStore interface {
	// Load returns the file contents. exists is false when the file is missing.
	Load(ctx context.Context) (content string, exists bool, err error)

	// Append writes lines to the end of the file in a single write.
	Append(ctx context.Context, lines []string) error

	// Path returns the location of the backing file.
	Path() string
}

// RepositoryRegistrar is the host's repository-registration API.
// creds is nil for repositories that need no authentication.
type RepositoryRegistrar interface {
	Register(ctx context.Context, repoURL *url.URL, creds *values.Pair) error
}

// ActionFunc is a unit of work the host can invoke by name.
type ActionFunc func(ctx context.Context) error

// ActionRegistry is the host's task infrastructure.
type ActionRegistry interface {
	RegisterAction(name string, action ActionFunc) error
}
