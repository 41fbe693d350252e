package config_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/privrepo"
	"github.com/reglet-dev/privrepo/config"
	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/providers"
	"github.com/reglet-dev/privrepo/credential/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullFile = `
version: "1.2"
allowEmptyCredentials: true
repositories:
  - gpr: acme/widgets
  - gpr: acme/tools
    credentials:
      prefix: acme
  - url: https://mirror.example.com/maven
    credentials:
      provider: none
pluginRepositories:
  - url: https://maven.pkg.github.com/acme/gradle-plugins
    credentials:
      provider: static
      username: bot
      token: ghp_static
store:
  outputDirectory: /tmp/creds
  prompts: false
  allowLegacyFallback: true
  entries:
    - prefix: acme
    - username: literal-user
`

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		f, err := config.Decode([]byte(fullFile))
		require.NoError(t, err)
		assert.Equal(t, "1.2", f.Version)
		assert.True(t, f.AllowEmptyCredentials)
		require.Len(t, f.Repositories, 3)
		assert.Equal(t, "acme", f.Repositories[1].Credentials.Prefix)
		require.Len(t, f.PluginRepositories, 1)
		assert.Equal(t, config.ProviderStatic, f.PluginRepositories[0].Credentials.Provider)
		require.NotNil(t, f.Store)
		require.NotNil(t, f.Store.Prompts)
		assert.False(t, *f.Store.Prompts)
		require.Len(t, f.Store.Entries, 2)
		require.NotNil(t, f.Store.Entries[1].Username)
		assert.Equal(t, "literal-user", *f.Store.Entries[1].Username)
		assert.Nil(t, f.Store.Entries[1].Token)
	})

	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"missing version", "repositories: []\n", "invalid declaration file"},
		{"unsupported version", "version: \"2.0\"\n", "unsupported declaration version"},
		{"bad version", "version: \"one\"\n", "invalid declaration version"},
		{"unquoted integer version", "version: 1\n", `version must be a quoted string, e.g. version: "1"`},
		{"unquoted float version", "version: 1.2\n", `version must be a quoted string, e.g. version: "1.2"`},
		{"unknown field", "version: \"1\"\nrepos: []\n", "invalid declaration file"},
		{"unknown provider", "version: \"1\"\nrepositories:\n  - gpr: a/b\n    credentials:\n      provider: vault\n", "invalid declaration file"},
		{"url and gpr", "version: \"1\"\nrepositories:\n  - gpr: a/b\n    url: https://x.example\n", "exactly one of url or gpr"},
		{"neither url nor gpr", "version: \"1\"\nrepositories:\n  - credentials:\n      provider: none\n", "exactly one of url or gpr"},
		{"static without token", "version: \"1\"\npluginRepositories:\n  - gpr: a/b\n    credentials:\n      provider: static\n      username: u\n", "require a token"},
		{"half keys", "version: \"1\"\nrepositories:\n  - gpr: a/b\n    credentials:\n      usernameKey: a.user\n", "must be set together"},
		{"prefix and keys", "version: \"1\"\nrepositories:\n  - gpr: a/b\n    credentials:\n      prefix: a\n      usernameKey: a.user\n      tokenKey: a.tok\n", "cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(fullFile), 0o600))

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Repositories, 3)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	raw, err := config.Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "privrepo declaration file", doc["title"])
	assert.Contains(t, doc["required"], "version")

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"version", "allowEmptyCredentials", "repositories", "pluginRepositories", "store"} {
		assert.Contains(t, props, key)
	}
}

func TestFile_Configure(t *testing.T) {
	t.Parallel()

	f, err := config.Decode([]byte(fullFile))
	require.NoError(t, err)

	p := privrepo.New(privrepo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, f.Configure(p))

	repos := p.Repositories().Entries()
	require.Len(t, repos, 3)
	assert.Same(t, p.PropertyProvider(values.DefaultPropertyKeys()), repos[0].Provider)
	assert.Same(t, p.PropertyProvider(values.PrefixedKeys("acme")), repos[1].Provider)
	assert.IsType(t, &providers.NoOp{}, repos[2].Provider)
	assert.True(t, p.Repositories().AllowEmptyCredentials())

	plugins := p.PluginRepositories().Entries()
	require.Len(t, plugins, 1)
	creds, err := plugins[0].Provider.Credentials(nil)
	require.NoError(t, err)
	assert.Equal(t, "bot", creds.Username())

	task := p.StoreCredentials()
	assert.Equal(t, "/tmp/creds", task.OutputDirectory)
	assert.False(t, task.Prompts)
	assert.True(t, task.AllowLegacyFallback)
	entries := task.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, values.PrefixedKeys("acme"), entries[0].Keys)
	assert.Equal(t, values.DefaultPropertyKeys(), entries[1].Keys)

	t.Run("explicit keys", func(t *testing.T) {
		f, err := config.Decode([]byte("version: \"1\"\nrepositories:\n  - gpr: a/b\n    credentials:\n      usernameKey: a.user\n      tokenKey: a.secret\n"))
		require.NoError(t, err)
		p := privrepo.New(privrepo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, f.Configure(p))
		assert.Same(t,
			p.PropertyProvider(values.PropertyKeys{UsernameKey: "a.user", TokenKey: "a.secret"}),
			p.Repositories().Entries()[0].Provider)
	})

	t.Run("blank static token", func(t *testing.T) {
		f := &config.File{Version: "1", Repositories: []config.Repository{{
			GPR:         "a/b",
			Credentials: &config.Credentials{Provider: config.ProviderStatic, Token: "  "},
		}}}
		p := privrepo.New(privrepo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		err := f.Configure(p)
		assert.ErrorIs(t, err, entities.ErrEmptyValue)
	})

	t.Run("registers end to end", func(t *testing.T) {
		f, err := config.Decode([]byte("version: \"1\"\nrepositories:\n  - gpr: acme/a\n"))
		require.NoError(t, err)
		p := privrepo.New(privrepo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, f.Configure(p))

		err = p.Apply(context.Background(), &privrepo.ProjectTarget{
			Properties: propertyMap{values.TokenProperty: "t"},
			Registrar:  noopRegistrar{},
		})
		require.NoError(t, err)
	})
}
