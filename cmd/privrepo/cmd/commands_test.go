package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/filesystem"
)

const acmeDeclaration = `version: "1"
repositories:
  - gpr: acme/a
    credentials:
      prefix: acme
store:
  entries:
    - prefix: acme
`

// resetFlags restores every flag of c and its subcommands to its default so
// rootCmd can be executed more than once in a test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		resetFlags(rootCmd)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDeclaration(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "privrepo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readCredentials(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filesystem.DefaultFileName))
	require.NoError(t, err)
	return string(data)
}

func TestStoreCredentialsCommand(t *testing.T) {
	decl := writeDeclaration(t, acmeDeclaration)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GRADLE_GITHUB_USERNAME", "alice")
	t.Setenv("GRADLE_GITHUB_TOKEN", "ghp_abc")
	want := "\nacme.username=alice\nacme.token=ghp_abc"

	t.Run("writes under --gradle-home", func(t *testing.T) {
		home := t.TempDir()
		_, err := executeCommand(t, "store-credentials", "--config", decl, "--gradle-home", home, "--prompts=false")
		require.NoError(t, err)
		assert.Equal(t, want, readCredentials(t, home))
	})

	t.Run("writes under PRIVREPO_GRADLE_HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("PRIVREPO_GRADLE_HOME", home)
		_, err := executeCommand(t, "store-credentials", "--config", decl, "--prompts=false")
		require.NoError(t, err)
		assert.Equal(t, want, readCredentials(t, home))
	})

	t.Run("--output-dir wins over --gradle-home", func(t *testing.T) {
		home, out := t.TempDir(), t.TempDir()
		_, err := executeCommand(t, "store-credentials", "--config", decl,
			"--gradle-home", home, "--output-dir", out, "--prompts=false")
		require.NoError(t, err)
		assert.Equal(t, want, readCredentials(t, out))
		assert.NoFileExists(t, filepath.Join(home, filesystem.DefaultFileName))
	})

	t.Run("defaults to the user gradle directory", func(t *testing.T) {
		_, err := executeCommand(t, "store-credentials", "--config", decl, "--prompts=false")
		require.NoError(t, err)
		assert.Equal(t, want, readCredentials(t, filesystem.DefaultDirectory()))
	})

	t.Run("--entry adds an entry", func(t *testing.T) {
		home := t.TempDir()
		_, err := executeCommand(t, "store-credentials", "--config", decl,
			"--gradle-home", home, "--entry", "other", "--prompts=false")
		require.NoError(t, err)
		assert.Equal(t, want+"\nother.username=alice\nother.token=ghp_abc", readCredentials(t, home))
	})

	t.Run("missing token without prompts fails", func(t *testing.T) {
		t.Setenv("GRADLE_GITHUB_TOKEN", "")
		home := t.TempDir()
		_, err := executeCommand(t, "store-credentials", "--config", decl, "--gradle-home", home, "--prompts=false")
		require.ErrorIs(t, err, entities.ErrMissingCredential)
		assert.NoFileExists(t, filepath.Join(home, filesystem.DefaultFileName))
	})
}

func TestResolveCommand(t *testing.T) {
	decl := writeDeclaration(t, acmeDeclaration)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GRADLE_GITHUB_USERNAME", "alice")
	t.Setenv("GRADLE_GITHUB_TOKEN", "ghp_abc")
	home := t.TempDir()

	_, err := executeCommand(t, "store-credentials", "--config", decl, "--gradle-home", home, "--prompts=false")
	require.NoError(t, err)

	t.Run("reads what store-credentials wrote", func(t *testing.T) {
		out, err := executeCommand(t, "resolve", "--config", decl, "--gradle-home", home, "-o", "yaml")
		require.NoError(t, err)

		var repos []resolvedRepository
		require.NoError(t, yaml.Unmarshal([]byte(out), &repos))
		assert.Equal(t, []resolvedRepository{{
			Scope:         "project",
			URL:           "https://maven.pkg.github.com/acme/a",
			Authenticated: true,
			Username:      "alice",
			Token:         "****_abc",
		}}, repos)
	})

	t.Run("match filters repositories", func(t *testing.T) {
		out, err := executeCommand(t, "resolve", "--config", decl, "--gradle-home", home, "--match", "maven.pkg.github.com/other/**")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid match pattern", func(t *testing.T) {
		_, err := executeCommand(t, "resolve", "--config", decl, "--match", "[")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --match pattern")
	})

	t.Run("missing explicit declaration file", func(t *testing.T) {
		_, err := executeCommand(t, "resolve", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
