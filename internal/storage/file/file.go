// Package file stores each namespace as a JSON file in a directory. It is the
// command-line counterpart of browser local storage.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-cart/internal/domain/cart"
)

var _ cart.Store = (*Store)(nil)

// Store maps namespaces to <dir>/<namespace>.json.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create store dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(namespace string) (string, error) {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) || namespace == "." || namespace == ".." {
		return "", errors.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(s.dir, namespace+".json"), nil
}

// Get returns the content of the namespace file.
func (s *Store) Get(_ context.Context, namespace string) (string, bool, error) {
	p, err := s.path(namespace)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read %s", p)
	}
	return string(data), true, nil
}

// Set atomically replaces the namespace file. The write is synced before the
// rename so a completed Set survives a crash.
func (s *Store) Set(_ context.Context, namespace, value string) error {
	p, err := s.path(namespace)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, namespace+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return errors.Wrapf(err, "rename to %s", p)
	}
	return nil
}
