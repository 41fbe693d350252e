// Package filesystem provides the file-backed credential store.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the name of the credentials file inside its directory.
const DefaultFileName = "gradle.properties"

// storeConfig holds configuration for the PropertiesFileStore.
type storeConfig struct {
	dir      string
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		dir:      DefaultDirectory(),
		dirPerm:  0o755,
		filePerm: 0o600,
	}
}

// DefaultDirectory returns $HOME/.gradle.
func DefaultDirectory() string {
	return filepath.Join(os.Getenv("HOME"), ".gradle")
}

// StoreOption configures a PropertiesFileStore instance.
type StoreOption func(*storeConfig)

// WithDirectory sets the directory holding the credentials file.
func WithDirectory(dir string) StoreOption {
	return func(c *storeConfig) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithFilePermissions sets the mode used when the file is created.
func WithFilePermissions(perm os.FileMode) StoreOption {
	return func(c *storeConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the mode used when the directory is created.
func WithDirPermissions(perm os.FileMode) StoreOption {
	return func(c *storeConfig) {
		c.dirPerm = perm
	}
}

// PropertiesFileStore implements ports.CredentialStore over a plain
// key=value file. Existing content is never rewritten; new lines are
// only ever appended.
type PropertiesFileStore struct {
	config storeConfig
}

// NewPropertiesFileStore creates a store with the given options.
func NewPropertiesFileStore(opts ...StoreOption) *PropertiesFileStore {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PropertiesFileStore{config: cfg}
}

// Path returns the credentials file location.
func (s *PropertiesFileStore) Path() string {
	return filepath.Join(s.config.dir, DefaultFileName)
}

// Load returns the raw file text. A missing file or directory is reported
// with exists=false and no error.
func (s *PropertiesFileStore) Load(ctx context.Context) (string, bool, error) {
	root, err := os.OpenRoot(s.config.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to open directory %q: %w", s.config.dir, err)
	}
	defer func() { _ = root.Close() }()

	file, err := root.Open(DefaultFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", false, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return string(data), true, nil
}

// Append writes "\n" followed by the newline-joined lines in one write.
// The directory and file are created if missing. No lines is a no-op.
func (s *PropertiesFileStore) Append(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.config.dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", s.config.dir, err)
	}

	root, err := os.OpenRoot(s.config.dir)
	if err != nil {
		return fmt.Errorf("failed to open directory %q: %w", s.config.dir, err)
	}
	defer func() { _ = root.Close() }()

	file, err := root.OpenFile(DefaultFileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, s.config.filePerm)
	if err != nil {
		return fmt.Errorf("failed to open credentials file for append: %w", err)
	}

	if _, err := io.WriteString(file, "\n"+strings.Join(lines, "\n")); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to append credentials: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close credentials file: %w", err)
	}
	return nil
}
