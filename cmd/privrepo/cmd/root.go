package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/privrepo"
	"github.com/reglet-dev/privrepo/config"
	"github.com/reglet-dev/privrepo/credential/filesystem"
	"github.com/reglet-dev/privrepo/credential/resolvers"
	"github.com/reglet-dev/privrepo/credential/services"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "privrepo",
	Short: "Private repository credential helper",
	Long: `privrepo resolves credentials for private package repositories and keeps
the local gradle.properties credentials file up to date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile := viper.GetString("env_file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
		return setupLogger(viper.GetString("log_level"))
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "declaration file (default: ./"+config.DefaultFileName+" if present)")
	flags.String("env-file", "", "load environment variables from this file first")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringToStringP("project-prop", "P", nil, "project property key=value (repeatable)")
	flags.StringToStringP("system-prop", "D", nil, "system property key=value (repeatable)")
	flags.String("gradle-home", "", "directory holding the user gradle.properties (default: $HOME/.gradle)")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("env_file", flags.Lookup("env-file"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("gradle_home", flags.Lookup("gradle-home"))
}

func initConfig() {
	viper.SetEnvPrefix("PRIVREPO")
	viper.AutomaticEnv()
	viper.SetDefault("log_level", "info")
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadPlugin builds a plugin from the declaration file. A missing default
// file yields an empty declaration; a missing explicit file is an error.
func loadPlugin() (*privrepo.Plugin, error) {
	p := privrepo.New(privrepo.WithLogger(slog.Default()))

	path := viper.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultFileName
	}

	f, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no declaration file found", "path", path)
			return p, nil
		}
		return nil, err
	}
	if err := f.Configure(p); err != nil {
		return nil, fmt.Errorf("applying %s: %w", path, err)
	}
	slog.Debug("loaded declaration file", "path", path)
	return p, nil
}

// buildProperties returns the -P flags layered over the user
// gradle.properties file.
func buildProperties(cmd *cobra.Command) (services.PropertyResolutionStrategy, error) {
	projectProps, err := cmd.Flags().GetStringToString("project-prop")
	if err != nil {
		return nil, err
	}
	store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(viper.GetString("gradle_home")))
	fileProps, err := resolvers.NewPropertiesFileResolver(store.Path())
	if err != nil {
		return nil, err
	}
	return services.Chain(resolvers.NewMapResolver(projectProps), fileProps), nil
}

func systemProperties(cmd *cobra.Command) (*resolvers.MapResolver, error) {
	props, err := cmd.Flags().GetStringToString("system-prop")
	if err != nil {
		return nil, err
	}
	return resolvers.NewMapResolver(props), nil
}
