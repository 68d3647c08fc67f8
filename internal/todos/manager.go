// Package todos owns the in-memory todo list and its mutation rules.
//
// A Manager holds one immutable snapshot at a time. Add and Toggle compute a
// new snapshot, publish it to observers and hand it to the persister. The
// snapshot stays authoritative even when persisting fails.
package todos

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
)

// ErrPersist wraps failures of the persister. The in-memory list has
// already moved on when it is returned.
var ErrPersist = errors.New("persist todos")

// Persister loads and saves whole collections.
type Persister interface {
	Load() (model.Collection, error)
	Save(model.Collection) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithSaveOnInit controls whether Initialize writes the starting list back.
// Default true, so a seeded list keeps its ids across restarts.
func WithSaveOnInit(v bool) Option {
	return func(m *Manager) { m.saveOnInit = v }
}

// WithSeed replaces the function producing the default list.
func WithSeed(fn func() model.Collection) Option {
	return func(m *Manager) { m.seed = fn }
}

// Manager is the single owner of the current todo list.
type Manager struct {
	mu        sync.Mutex
	store     Persister
	current   model.Collection
	observers []func(model.Collection)

	log        *log.Logger
	saveOnInit bool
	seed       func() model.Collection
}

func New(store Persister, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		log:        logging.Discard(),
		saveOnInit: true,
		seed:       model.Seed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads the persisted list, falling back to the seed list when
// nothing usable is stored. It never fails. When the store itself cannot be
// read the seed list is kept in memory only.
func (m *Manager) Initialize() model.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	save := m.saveOnInit
	loaded, err := m.store.Load()
	switch {
	case err == nil && len(loaded) > 0:
		m.log.Debug("loaded todos", "count", len(loaded))
		m.current = loaded
	case err == nil, errors.Is(err, jsonstore.ErrNotFound):
		m.log.Debug("no saved todos, using seed list")
		m.current = m.seed()
	case errors.Is(err, jsonstore.ErrMalformed):
		m.log.Warn("ignoring saved todos", "err", err)
		m.current = m.seed()
	default:
		// The stored list may be fine; only a mutation may overwrite it.
		m.log.Error("load todos", "err", err)
		m.current = m.seed()
		save = false
	}

	if save {
		if err := m.store.Save(m.current); err != nil {
			m.log.Error("save initial todos", "err", err)
		}
	}
	return m.current
}

// Snapshot returns the current list. Callers must not modify it.
func (m *Manager) Snapshot() model.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// OnChange registers fn to be called with every new snapshot, in
// registration order, after each mutation. fn also runs when saving fails.
func (m *Manager) OnChange(fn func(model.Collection)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Add puts a new unchecked todo at the front of the list.
func (m *Manager) Add(label string) (model.Collection, error) {
	todo := model.New(label)
	m.log.Debug("add", "id", todo.ID)
	return m.apply(func(cur model.Collection) model.Collection {
		next := make(model.Collection, 0, len(cur)+1)
		next = append(next, todo)
		return append(next, cur...)
	})
}

// Toggle sets the checked flag of id and reorders the list: unchecked items
// first in their existing order, then the checked items reversed.
// An unknown id changes no item but still reorders.
func (m *Manager) Toggle(id string, checked bool) (model.Collection, error) {
	m.log.Debug("toggle", "id", id, "checked", checked)
	return m.apply(func(cur model.Collection) model.Collection {
		return Reorder(cur, id, checked)
	})
}

// Reorder is the pure form of Toggle. It never modifies c.
func Reorder(c model.Collection, id string, checked bool) model.Collection {
	var unchecked, done model.Collection
	for _, t := range c {
		if t.ID == id {
			t.Checked = checked
		}
		if t.Checked {
			done = append(done, t)
		} else {
			unchecked = append(unchecked, t)
		}
	}

	out := make(model.Collection, 0, len(c))
	out = append(out, unchecked...)
	for i := len(done) - 1; i >= 0; i-- {
		out = append(out, done[i])
	}
	return out
}

// apply swaps in the snapshot computed by fn and saves it under the lock.
// Observers run after the lock is released and may call back into the Manager.
func (m *Manager) apply(fn func(model.Collection) model.Collection) (model.Collection, error) {
	m.mu.Lock()
	next := fn(m.current)
	m.current = next
	observers := m.observers
	saveErr := m.store.Save(next)
	m.mu.Unlock()

	for _, o := range observers {
		o(next)
	}
	if saveErr != nil {
		m.log.Error("save todos", "err", saveErr)
		return next, fmt.Errorf("%w: %w", ErrPersist, saveErr)
	}
	return next, nil
}
