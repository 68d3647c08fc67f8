package jsonstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/kvstore"
)

func TestLoadMissing(t *testing.T) {
	a := New(kvstore.NewMemory(), "")
	assert.Equal(t, DefaultKey, a.Key())

	_, err := a.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadPreservesOrderAndFields(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set("todos",
		`[{"id":"1","label":"Test 1","checked":false},{"id":"2","label":"Test 2","checked":true}]`))

	got, err := New(kv, "todos").Load()
	require.NoError(t, err)
	assert.Equal(t, model.Collection{
		{ID: "1", Label: "Test 1", Checked: false},
		{ID: "2", Label: "Test 2", Checked: true},
	}, got)
}

func TestSaveThenLoad(t *testing.T) {
	kv := kvstore.NewMemory()
	a := New(kv, "")
	in := model.Collection{
		{ID: "b", Label: "second", Checked: true},
		{ID: "a", Label: "first"},
		{ID: "c", Label: `quotes "and" unicode ✔`},
	}
	require.NoError(t, a.Save(in))

	raw, ok, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"id":"b","label":"second","checked":true},{"id":"a","label":"first","checked":false},{"id":"c","label":"quotes \"and\" unicode ✔","checked":false}]`,
		raw)

	out, err := a.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveEmptyEncodesArray(t *testing.T) {
	kv := kvstore.NewMemory()
	require.NoError(t, New(kv, "").Save(nil))
	raw, _, _ := kv.Get(DefaultKey)
	assert.Equal(t, "[]", raw)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{oops`},
		{name: "object instead of array", raw: `{"id":"1"}`},
		{name: "missing checked", raw: `[{"id":"1","label":"x"}]`},
		{name: "checked not bool", raw: `[{"id":"1","label":"x","checked":"yes"}]`},
		{name: "empty id", raw: `[{"id":"","label":"x","checked":false}]`},
		{name: "numeric id", raw: `[{"id":1,"label":"x","checked":false}]`},
		{name: "duplicate ids", raw: `[{"id":"1","label":"x","checked":false},{"id":"1","label":"y","checked":true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

type failingKV struct{ kvstore.Store }

var errDisk = errors.New("quota exceeded")

func (failingKV) Get(string) (string, bool, error) { return "", false, errDisk }
func (failingKV) Set(string, string) error         { return errDisk }

func TestStoreErrorsPropagate(t *testing.T) {
	a := New(failingKV{}, "")
	_, err := a.Load()
	assert.ErrorIs(t, err, errDisk)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = a.Save(model.Collection{})
	assert.ErrorIs(t, err, errDisk)
}
