package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Todo is the domain model for a single list entry.
// ID and Label never change after creation; Checked is the only mutable field.
type Todo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// NewID returns a fresh random identifier.
func NewID() string { return uuid.NewString() }

// New builds an unchecked todo with a fresh id.
func New(label string) Todo {
	return Todo{ID: NewID(), Label: label}
}

// Collection is an ordered list of todos. Order is render order.
type Collection []Todo

var seedLabels = []string{
	"Buy groceries",
	"Reboot computer",
	"Ace CoderPad interview",
}

// Seed returns the default list used when nothing has been persisted.
func Seed() Collection {
	out := make(Collection, 0, len(seedLabels))
	for _, l := range seedLabels {
		out = append(out, New(l))
	}
	return out
}

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Index returns the position of id, or -1.
func (c Collection) Index(id string) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Stats counts checked and unchecked entries.
func (c Collection) Stats() (checked, unchecked int) {
	for _, t := range c {
		if t.Checked {
			checked++
		} else {
			unchecked++
		}
	}
	return
}

// Validate reports empty or duplicate ids.
func (c Collection) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, t := range c {
		if t.ID == "" {
			return fmt.Errorf("item %d: empty id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("item %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
