// Package reconcile brings the local credentials file up to date: it finds
// the requested keys that are missing, resolves values for them and
// appends the new lines without touching existing content.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/reglet-dev/privrepo/credential/entities"
	"github.com/reglet-dev/privrepo/credential/filesystem"
	"github.com/reglet-dev/privrepo/credential/ports"
	"github.com/reglet-dev/privrepo/credential/prompt"
	"github.com/reglet-dev/privrepo/credential/values"
)

// Reconciler appends missing credential entries to the credentials file.
type Reconciler struct {
	store          ports.CredentialStore
	prompter       ports.Prompter
	newPrompter    func() ports.Prompter
	lookupEnv      func(string) (string, bool)
	legacyFallback bool
	prompting      bool
	logger         *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithStore sets the credential store.
func WithStore(s ports.CredentialStore) Option {
	return func(r *Reconciler) { r.store = s }
}

// WithPrompter sets the prompter. Without one, a prompter is chosen on
// first use by probing the terminal.
func WithPrompter(p ports.Prompter) Option {
	return func(r *Reconciler) { r.prompter = p }
}

// WithEnv sets the environment lookup.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(r *Reconciler) {
		if lookup != nil {
			r.lookupEnv = lookup
		}
	}
}

// WithLegacyFallback enables reading the combined "owner:token" variable.
func WithLegacyFallback(enabled bool) Option {
	return func(r *Reconciler) { r.legacyFallback = enabled }
}

// WithPrompting controls whether the operator may be asked for values.
func WithPrompting(enabled bool) Option {
	return func(r *Reconciler) { r.prompting = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReconciler creates a reconciler. Prompting is on by default; the
// legacy fallback is off.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		prompting:   true,
		lookupEnv:   os.LookupEnv,
		newPrompter: prompt.New,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = filesystem.NewPropertiesFileStore()
	}
	return r
}

// Result reports what a run appended. Values are never included.
type Result struct {
	Path string
	// Keys lists the appended keys in file order.
	Keys []string
}

// Changed reports whether anything was appended.
func (r *Result) Changed() bool {
	return len(r.Keys) > 0
}

// Run reconciles the given entries, or the default entry when none are
// given. Every entry is resolved before anything is written, so an error
// leaves the file untouched.
func (r *Reconciler) Run(ctx context.Context, entries ...Entry) (*Result, error) {
	// 1. Load existing credentials file
	content, exists, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading credentials file: %w", err)
	}

	if len(entries) == 0 {
		entries = []Entry{DefaultEntry()}
	}

	// 2. Resolve lines for each entry in request order
	result := &Result{Path: r.store.Path()}
	var lines []string
	emitted := make(map[string]bool)
	for _, entry := range entries {
		entry = entry.normalized()
		if err := entry.validate(); err != nil {
			return nil, err
		}
		entryLines, keys, err := r.reconcileEntry(content, exists, entry, emitted)
		if err != nil {
			return nil, err
		}
		lines = append(lines, entryLines...)
		result.Keys = append(result.Keys, keys...)
	}

	if len(lines) == 0 {
		r.logger.Info("no changes made to credentials file", "path", result.Path)
		return result, nil
	}

	// 3. Append in a single write
	if err := r.store.Append(ctx, lines); err != nil {
		return nil, fmt.Errorf("writing credentials file: %w", err)
	}
	r.logger.Info("appended new entries to credentials file", "path", result.Path, "count", len(lines))
	return result, nil
}

// reconcileEntry returns the key=value lines to append for one entry and
// the keys they set. emitted holds keys already produced in this run.
func (r *Reconciler) reconcileEntry(content string, exists bool, e Entry, emitted map[string]bool) ([]string, []string, error) {
	missingUser := isMissing(content, exists, e.Keys.UsernameKey) && !emitted[e.Keys.UsernameKey]
	missingToken := isMissing(content, exists, e.Keys.TokenKey) && !emitted[e.Keys.TokenKey]
	if !missingUser && !missingToken {
		return nil, nil, nil
	}
	r.logger.Debug("credential entry incomplete",
		"username_key", e.Keys.UsernameKey, "missing_username", missingUser,
		"token_key", e.Keys.TokenKey, "missing_token", missingToken)

	username := r.seed(e.Username, values.UsernameEnv)
	token := r.seed(e.Token, values.TokenEnv)

	if r.legacyFallback && (username == "" || token == "") {
		username, token = r.applyLegacy(username, token)
	}

	var lines, keys []string
	emit := func(key, value string) {
		lines = append(lines, key+"="+value)
		keys = append(keys, key)
		emitted[key] = true
	}

	if missingUser {
		if username == "" && r.prompting {
			v, err := r.ask(fmt.Sprintf("Enter `%s` username: ", e.Keys.UsernameKey))
			if err != nil {
				return nil, nil, err
			}
			username = v
		}
		switch {
		case hasLineBreak(username):
			r.logger.Warn("username contains a line break, omitting entry", "key", e.Keys.UsernameKey)
		case username != "":
			emit(e.Keys.UsernameKey, username)
		default:
			// A blank identity is legitimate for some schemes; only the token is required.
			r.logger.Warn("no username resolved, omitting entry", "key", e.Keys.UsernameKey)
		}
	}

	if missingToken {
		if token == "" {
			if !r.prompting {
				return nil, nil, &entities.MissingCredentialError{
					UsernameKey: e.Keys.UsernameKey,
					TokenKey:    e.Keys.TokenKey,
					Reason:      "prompting disabled",
				}
			}
			v, err := r.ask(fmt.Sprintf("Enter `%s` token: ", e.Keys.TokenKey))
			if err != nil {
				return nil, nil, err
			}
			if v == "" {
				return nil, nil, &entities.EmptyValueError{Key: e.Keys.TokenKey}
			}
			token = v
		}
		if hasLineBreak(token) {
			return nil, nil, &entities.MissingCredentialError{
				UsernameKey: e.Keys.UsernameKey,
				TokenKey:    e.Keys.TokenKey,
				Reason:      "token contains a line break",
			}
		}
		emit(e.Keys.TokenKey, token)
	}

	return lines, keys, nil
}

// isMissing uses plain substring containment on the raw text: a key name
// appearing anywhere, even inside another key or a comment, counts as present.
func isMissing(content string, exists bool, key string) bool {
	return !exists || !strings.Contains(content, key)
}

// hasLineBreak reports whether v would split into more than one property line.
func hasLineBreak(v string) bool {
	return strings.ContainsAny(v, "\r\n")
}

// seed returns the literal value if given, else the environment variable.
func (r *Reconciler) seed(literal *string, env string) string {
	if literal != nil {
		return *literal
	}
	v, _ := r.lookupEnv(env)
	return v
}

// applyLegacy fills blank values from the combined "owner:token" variable,
// split on the first colon.
func (r *Reconciler) applyLegacy(username, token string) (string, string) {
	combined, ok := r.lookupEnv(values.LegacyCredentialsEnv)
	if !ok || combined == "" {
		return username, token
	}
	r.logger.Debug("using legacy credentials variable", "env", values.LegacyCredentialsEnv)

	owner, secret, _ := strings.Cut(combined, ":")
	if username == "" {
		username = owner
	}
	if token == "" {
		token = secret
	}
	return username, token
}

// ask prompts the operator, creating the prompter on first use.
func (r *Reconciler) ask(text string) (string, error) {
	if r.prompter == nil {
		r.prompter = r.newPrompter()
	}
	v, err := r.prompter.Prompt(text)
	if err != nil {
		return "", fmt.Errorf("prompting for credentials: %w", err)
	}
	return strings.TrimSpace(v), nil
}
