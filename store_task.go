package privrepo

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/privrepo/credential/filesystem"
	"github.com/reglet-dev/privrepo/credential/reconcile"
)

// StoreTask holds the settings of the credential store action.
type StoreTask struct {
	// OutputDirectory overrides $HOME/.gradle.
	OutputDirectory string
	// Prompts allows asking the operator for missing values.
	Prompts bool
	// AllowLegacyFallback enables the combined "owner:token" variable.
	AllowLegacyFallback bool

	entries []reconcile.Entry
	options []reconcile.Option
	logger  *slog.Logger
}

func newStoreTask(logger *slog.Logger, opts []reconcile.Option) *StoreTask {
	return &StoreTask{Prompts: true, logger: logger, options: opts}
}

// WithDefaultEntry adds the well-known keys. Only needed when other
// entries were added, since no entries means the default entry.
func (t *StoreTask) WithDefaultEntry() *StoreTask {
	t.entries = append(t.entries, reconcile.DefaultEntry())
	return t
}

// AddEntry adds an entry to be kept in the credentials file.
func (t *StoreTask) AddEntry(e reconcile.Entry) *StoreTask {
	t.entries = append(t.entries, e)
	return t
}

// Entries returns the configured entries.
func (t *StoreTask) Entries() []reconcile.Entry {
	out := make([]reconcile.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Run reconciles the credentials file with the configured entries.
func (t *StoreTask) Run(ctx context.Context) (*reconcile.Result, error) {
	opts := []reconcile.Option{
		reconcile.WithStore(filesystem.NewPropertiesFileStore(filesystem.WithDirectory(t.OutputDirectory))),
		reconcile.WithPrompting(t.Prompts),
		reconcile.WithLegacyFallback(t.AllowLegacyFallback),
		reconcile.WithLogger(t.logger),
	}
	opts = append(opts, t.options...)
	return reconcile.NewReconciler(opts...).Run(ctx, t.entries...)
}
