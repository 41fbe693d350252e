// Package netutil builds and normalizes repository URLs.
package netutil

import (
	"fmt"
	"net/url"
	"strings"
)

// GitHubPackagesBase is the Maven endpoint of GitHub Packages.
const GitHubPackagesBase = "https://maven.pkg.github.com/"

// GPR returns the GitHub Packages URL for "owner/repository".
// Leading and trailing slashes are ignored.
func GPR(ownerAndRepository string) string {
	return GitHubPackagesBase + strings.Trim(ownerAndRepository, "/")
}

// GPROwnerRepo returns the GitHub Packages URL for owner and repository.
func GPROwnerRepo(owner, repository string) string {
	return GPR(strings.Trim(owner, "/") + "/" + strings.Trim(repository, "/"))
}

// ParseRepositoryURL parses an absolute repository URL.
// Credentials embedded in the URL are rejected; they belong in a provider.
func ParseRepositoryURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", StripCredentials(rawURL), err)
	}
	if !parsed.IsAbs() || parsed.Host == "" && parsed.Scheme != "file" {
		return nil, fmt.Errorf("repository URL %q must be absolute", rawURL)
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("repository URL %q must not embed credentials", StripCredentials(rawURL))
	}
	return parsed, nil
}

// StripCredentials removes user:password@ from a URL for safe logging.
// Returns the input unchanged if the URL cannot be parsed.
func StripCredentials(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

// NormalizeURL returns a normalized form of the URL suitable for map keys.
// It lowercases the scheme and host, removes default ports, strips
// credentials and a trailing slash.
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	n := *u
	n.User = nil
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)

	port := n.Port()
	if (n.Scheme == "https" && port == "443") || (n.Scheme == "http" && port == "80") {
		n.Host = n.Hostname()
	}

	if n.Path != "/" && strings.HasSuffix(n.Path, "/") {
		n.Path = strings.TrimSuffix(n.Path, "/")
		n.RawPath = ""
	}

	if n.RawQuery != "" {
		n.RawQuery = n.Query().Encode() // sorted
	}
	return n.String()
}

// IsHTTPS returns true if the URL uses the HTTPS scheme.
func IsHTTPS(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Scheme, "https")
}
