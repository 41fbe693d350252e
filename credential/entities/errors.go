package entities

import (
	"errors"
	"fmt"
)

// ReconcileAction is the name of the action that writes missing
// credentials to the local properties file.
const ReconcileAction = "storeGitHubCredentials"

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrMissingCredential is returned when a required credential cannot be
	// found in any source.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidProviderTarget is returned when the plugin is applied to an
	// unsupported host context.
	ErrInvalidProviderTarget = errors.New("invalid provider target")

	// ErrEmptyValue is returned when a value resolved but is blank.
	ErrEmptyValue = errors.New("empty value")
)

// MissingCredentialError names the keys that could not be resolved.
type MissingCredentialError struct {
	UsernameKey string
	TokenKey    string
	// Reason is optional extra context, e.g. "prompting disabled".
	Reason string
}

func (e *MissingCredentialError) Error() string {
	msg := fmt.Sprintf(
		"missing credentials: set %q and %q, or run the %q action to store them",
		e.UsernameKey, e.TokenKey, ReconcileAction,
	)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, entities.ErrMissingCredential)
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// InvalidProviderTargetError indicates the plugin was applied to
// something that is neither a project nor a settings context.
type InvalidProviderTargetError struct {
	Target any
}

func (e *InvalidProviderTargetError) Error() string {
	return fmt.Sprintf("invalid application of plugin for %T", e.Target)
}

// Is implements error matching for errors.Is() checks.
func (e *InvalidProviderTargetError) Is(target error) bool {
	return target == ErrInvalidProviderTarget
}

// EmptyValueError indicates a value was present but blank.
// It matches ErrMissingCredential too: callers treat blank as missing.
type EmptyValueError struct {
	Key string
}

func (e *EmptyValueError) Error() string {
	return fmt.Sprintf("empty value for %q", e.Key)
}

// Is implements error matching for errors.Is() checks.
func (e *EmptyValueError) Is(target error) bool {
	return target == ErrEmptyValue || target == ErrMissingCredential
}
