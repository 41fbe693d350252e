package entities

import (
	"fmt"
	"net/url"

	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/netutil"
)

// Repository is a declared private repository and the provider that
// supplies its credentials. Immutable after creation.
type Repository struct {
	URL      *url.URL
	Provider ports.CredentialProvider
}

// Key returns the normalized URL that identifies the repository.
func (r Repository) Key() string {
	return netutil.NormalizeURL(r.URL)
}

// Registry is an aggregate root holding the repositories declared for one
// configuration scope.
//
// Invariants:
// - Each normalized URL appears at most once; the first declaration wins
// - Iteration order is declaration order
// - Every entry has a provider
type Registry struct {
	entries []Repository
	index   map[string]int

	// AllowEmptyCredentials lets property providers report "no credentials"
	// instead of failing when the token is missing.
	AllowEmptyCredentials bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add declares a repository. It returns false, keeping the existing entry,
// when the URL is already registered.
func (r *Registry) Add(repo Repository) (bool, error) {
	if repo.URL == nil {
		return false, fmt.Errorf("repository URL is required")
	}
	if repo.Provider == nil {
		return false, fmt.Errorf("repository %s: provider is required", netutil.StripCredentials(repo.URL.String()))
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}
	key := repo.Key()
	if _, ok := r.index[key]; ok {
		return false, nil
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, repo)
	return true, nil
}

// Get retrieves a repository by URL.
// Returns nil if not found.
func (r *Registry) Get(u *url.URL) *Repository {
	i, ok := r.index[netutil.NormalizeURL(u)]
	if !ok {
		return nil
	}
	repo := r.entries[i]
	return &repo
}

// Entries returns a copy of the repositories in declaration order.
func (r *Registry) Entries() []Repository {
	out := make([]Repository, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of repositories.
func (r *Registry) Len() int {
	return len(r.entries)
}
