// Package config loads the repository declaration file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "privrepo.yaml"

// SupportedVersions is the constraint the file's version must satisfy.
const SupportedVersions = "^1"

// Provider kinds accepted in a repository's credentials block.
const (
	ProviderProperty = "property"
	ProviderStatic   = "static"
	ProviderNone     = "none"
)

// File is the declaration file.
type File struct {
	Version               string       `yaml:"version" json:"version" jsonschema:"description=Declaration format version"`
	AllowEmptyCredentials bool         `yaml:"allowEmptyCredentials,omitempty" json:"allowEmptyCredentials,omitempty"`
	Repositories          []Repository `yaml:"repositories,omitempty" json:"repositories,omitempty" jsonschema:"description=Build-time repositories"`
	PluginRepositories    []Repository `yaml:"pluginRepositories,omitempty" json:"pluginRepositories,omitempty" jsonschema:"description=Bootstrap repositories"`
	Store                 *Store       `yaml:"store,omitempty" json:"store,omitempty"`
}

// Repository declares one repository by URL or by GitHub "owner/repo".
type Repository struct {
	URL         string       `yaml:"url,omitempty" json:"url,omitempty" jsonschema:"format=uri"`
	GPR         string       `yaml:"gpr,omitempty" json:"gpr,omitempty" jsonschema:"pattern=^/?[^/]+/[^/]+/?$"`
	Credentials *Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// Credentials selects the provider for a repository.
type Credentials struct {
	Provider    string `yaml:"provider,omitempty" json:"provider,omitempty" jsonschema:"enum=property,enum=static,enum=none"`
	Prefix      string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	UsernameKey string `yaml:"usernameKey,omitempty" json:"usernameKey,omitempty"`
	TokenKey    string `yaml:"tokenKey,omitempty" json:"tokenKey,omitempty"`
	Username    string `yaml:"username,omitempty" json:"username,omitempty"`
	Token       string `yaml:"token,omitempty" json:"token,omitempty"`
}

// Store configures the credential store action.
type Store struct {
	OutputDirectory     string       `yaml:"outputDirectory,omitempty" json:"outputDirectory,omitempty"`
	Prompts             *bool        `yaml:"prompts,omitempty" json:"prompts,omitempty"`
	AllowLegacyFallback bool         `yaml:"allowLegacyFallback,omitempty" json:"allowLegacyFallback,omitempty"`
	Entries             []StoreEntry `yaml:"entries,omitempty" json:"entries,omitempty"`
}

// StoreEntry is one credential to keep in the credentials file.
type StoreEntry struct {
	Prefix   string  `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Username *string `yaml:"username,omitempty" json:"username,omitempty"`
	Token    *string `yaml:"token,omitempty" json:"token,omitempty"`
}

// Load reads and validates the declaration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode validates data against the schema, decodes it and checks the
// version and repository invariants.
func Decode(data []byte) (*File, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict()).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding declaration YAML: %w", err)
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	for i, r := range f.Repositories {
		if err := r.check(); err != nil {
			return nil, fmt.Errorf("repositories[%d]: %w", i, err)
		}
	}
	for i, r := range f.PluginRepositories {
		if err := r.check(); err != nil {
			return nil, fmt.Errorf("pluginRepositories[%d]: %w", i, err)
		}
	}
	return &f, nil
}

func checkVersion(v string) error {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", SupportedVersions, err)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid declaration version %q: %w", v, err)
	}
	if !c.Check(version) {
		return fmt.Errorf("unsupported declaration version %s (supported: %s)", version, SupportedVersions)
	}
	return nil
}

func (r Repository) check() error {
	if (r.URL == "") == (r.GPR == "") {
		return fmt.Errorf("exactly one of url or gpr is required")
	}
	if r.Credentials == nil {
		return nil
	}
	c := r.Credentials
	switch c.Provider {
	case "", ProviderProperty:
		if c.Prefix != "" && (c.UsernameKey != "" || c.TokenKey != "") {
			return fmt.Errorf("prefix cannot be combined with usernameKey or tokenKey")
		}
		if (c.UsernameKey == "") != (c.TokenKey == "") {
			return fmt.Errorf("usernameKey and tokenKey must be set together")
		}
	case ProviderStatic:
		if c.Token == "" {
			return fmt.Errorf("static credentials require a token")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unknown credentials provider %q", c.Provider)
	}
	return nil
}
