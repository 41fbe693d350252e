package privrepo

import "github.com/reglet-dev/privrepo/credential/ports"

// Target is the host context the plugin is applied to. It is a closed
// set: *ProjectTarget or *SettingsTarget.
type Target interface {
	isTarget()
}

// ProjectTarget is a build-time context. Repositories declared through
// Plugin.Repositories are registered with properties from a single
// project namespace.
type ProjectTarget struct {
	Properties ports.PropertyResolver
	Registrar  ports.RepositoryRegistrar
	// Actions receives the credential store action. Optional.
	Actions ports.ActionRegistry
	// RequestedActions are the action names the host was asked to run.
	RequestedActions []string
}

func (*ProjectTarget) isTarget() {}

// SettingsTarget is a bootstrap context. Repositories declared through
// Plugin.PluginRepositories are registered with properties looked up as
// build property, then system property, then environment variable.
type SettingsTarget struct {
	Build     ports.PropertyResolver
	System    ports.PropertyResolver
	Env       ports.PropertyResolver
	Registrar ports.RepositoryRegistrar
}

func (*SettingsTarget) isTarget() {}
