package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/privrepo"
	"github.com/reglet-dev/privrepo/credential/resolvers"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve credentials for the declared repositories",
	Long: `Resolve credentials for each declared repository and print what would be
registered. Tokens are masked. With --settings the bootstrap repositories are
resolved using build property, system property, then environment precedence.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().Bool("settings", false, "resolve bootstrap (plugin) repositories instead of build repositories")
	resolveCmd.Flags().String("match", "", "only print repositories whose host/path matches this glob (e.g. maven.pkg.github.com/acme/**)")
	resolveCmd.Flags().StringP("output", "o", "text", "output format: text or yaml")
}

func runResolve(cmd *cobra.Command, args []string) error {
	settings, _ := cmd.Flags().GetBool("settings")
	match, _ := cmd.Flags().GetString("match")
	output, _ := cmd.Flags().GetString("output")

	if match != "" && !doublestar.ValidatePattern(match) {
		return fmt.Errorf("invalid --match pattern %q", match)
	}
	if output != "text" && output != "yaml" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	p, err := loadPlugin()
	if err != nil {
		return err
	}

	build, err := buildProperties(cmd)
	if err != nil {
		return err
	}

	var target privrepo.Target
	registrar := &recordingRegistrar{scope: privrepo.ScopeProject}
	if settings {
		system, err := systemProperties(cmd)
		if err != nil {
			return err
		}
		registrar.scope = privrepo.ScopeSettings
		target = &privrepo.SettingsTarget{
			Build:     build,
			System:    system,
			Env:       resolvers.NewEnvResolver(nil),
			Registrar: registrar,
		}
	} else {
		target = &privrepo.ProjectTarget{Properties: build, Registrar: registrar}
	}

	if err := p.Apply(context.Background(), target); err != nil {
		return err
	}

	repos, err := filterRepositories(registrar.repos, match)
	if err != nil {
		return err
	}
	return printRepositories(cmd.OutOrStdout(), repos, output)
}

func filterRepositories(repos []resolvedRepository, pattern string) ([]resolvedRepository, error) {
	if pattern == "" {
		return repos, nil
	}
	var out []resolvedRepository
	for _, r := range repos {
		u, err := url.Parse(r.URL)
		if err != nil {
			return nil, err
		}
		ok, err := doublestar.Match(pattern, u.Host+u.Path)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func printRepositories(w io.Writer, repos []resolvedRepository, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(repos); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	for _, r := range repos {
		creds := "no credentials"
		if r.Authenticated {
			user := r.Username
			if user == "" {
				user = "<blank>"
			}
			creds = user + " " + r.Token
		}
		if _, err := fmt.Fprintf(w, "%-8s %s  %s\n", r.Scope, r.URL, strings.TrimSpace(creds)); err != nil {
			return err
		}
	}
	return nil
}
