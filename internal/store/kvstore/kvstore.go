// Package kvstore provides the string key-value surface the todo list is
// persisted to. It plays the role browser local storage plays for a web page.
package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

// Store is a get/set-by-key string store.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value under key.
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Open returns the store for backend rooted at path.
// An empty backend means BackendFile. path is ignored for BackendMemory.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
