package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/privrepo"
	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/reconcile"
)

var storeCmd = &cobra.Command{
	Use:   "store-credentials",
	Short: "Append missing credentials to gradle.properties",
	Long: `Ensure every configured credential entry exists in the credentials file.
Values come from entry literals, GRADLE_GITHUB_USERNAME / GRADLE_GITHUB_TOKEN,
the legacy BUNDLE_RUBYGEMS__PKG__GITHUB__COM variable (opt-in) or a prompt.
Existing lines are never modified.`,
	Aliases: []string{entities.ReconcileAction},
	Args:    cobra.NoArgs,
	RunE:    runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)

	storeCmd.Flags().String("output-dir", "", "directory of the credentials file (default: --gradle-home, then $HOME/.gradle)")
	storeCmd.Flags().Bool("prompts", true, "ask for values that cannot be resolved")
	storeCmd.Flags().Bool("allow-legacy-fallback", false, "read owner:token from BUNDLE_RUBYGEMS__PKG__GITHUB__COM")
	storeCmd.Flags().StringArray("entry", nil, "property prefix of an entry to store (repeatable)")

	_ = viper.BindPFlag("output_dir", storeCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("prompts", storeCmd.Flags().Lookup("prompts"))
	_ = viper.BindPFlag("allow_legacy_fallback", storeCmd.Flags().Lookup("allow-legacy-fallback"))
}

func runStore(cmd *cobra.Command, args []string) error {
	p, err := loadPlugin()
	if err != nil {
		return err
	}

	task := p.StoreCredentials()
	// --output-dir, then the declaration file, then --gradle-home.
	dir := viper.GetString("output_dir")
	if dir == "" && task.OutputDirectory == "" {
		dir = viper.GetString("gradle_home")
	}
	if dir != "" {
		task.OutputDirectory = dir
	}
	if viper.IsSet("prompts") {
		task.Prompts = viper.GetBool("prompts")
	}
	if viper.GetBool("allow_legacy_fallback") {
		task.AllowLegacyFallback = true
	}
	prefixes, err := cmd.Flags().GetStringArray("entry")
	if err != nil {
		return err
	}
	for _, prefix := range prefixes {
		task.AddEntry(reconcile.PrefixedEntry(prefix))
	}

	// Register and invoke the action through the host flow.
	ctx := context.Background()
	actions := actionRegistry{}
	err = p.Apply(ctx, &privrepo.ProjectTarget{
		Registrar:        &recordingRegistrar{scope: privrepo.ScopeProject},
		Actions:          actions,
		RequestedActions: []string{entities.ReconcileAction},
	})
	if err != nil {
		return err
	}

	if err := actions.run(ctx, entities.ReconcileAction); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	return nil
}
