// Package jsonstore encodes the todo collection as JSON and keeps it under a
// single key of a kvstore.Store.
package jsonstore

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/kvstore"
)

// DefaultKey is the storage key the list lives under.
const DefaultKey = "todos"

var (
	// ErrNotFound means nothing has been stored under the key yet.
	ErrNotFound = errors.New("no saved todos")
	// ErrMalformed means a value exists but is not a valid todo list.
	ErrMalformed = errors.New("malformed todos")
)

//go:embed todos.schema.json
var schemaJSON string

var todosSchema = jsonschema.MustCompileString("todos.schema.json", schemaJSON)

// Adapter translates between model.Collection and the stored string.
// It holds no list state of its own.
type Adapter struct {
	kv  kvstore.Store
	key string
}

// New returns an Adapter over kv using key. An empty key means DefaultKey.
func New(kv kvstore.Store, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key}
}

// Key returns the storage key in use.
func (a *Adapter) Key() string { return a.key }

// Load reads and decodes the stored collection.
func (a *Adapter) Load() (model.Collection, error) {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", a.key, err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(raw)
}

// Save encodes c and replaces whatever was stored under the key.
func (a *Adapter) Save(c model.Collection) error {
	raw, err := Encode(c)
	if err != nil {
		return err
	}
	if err := a.kv.Set(a.key, raw); err != nil {
		return fmt.Errorf("set %q: %w", a.key, err)
	}
	return nil
}

// Encode renders c as a JSON array in list order.
func Encode(c model.Collection) (string, error) {
	if c == nil {
		c = model.Collection{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses raw, checking its shape before trusting it.
// Every failure wraps ErrMalformed.
func Decode(raw string) (model.Collection, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrMalformed, err)
	}
	if err := todosSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var c model.Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrMalformed, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return c, nil
}
