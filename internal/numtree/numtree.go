// Package numtree implements the PDF number tree: an ordered mapping
// from integer keys to values, stored as a flat array of pairs sorted
// ascending by key. Page labels are its main consumer.
package numtree

import (
	"sort"

	"github.com/pkg/errors"
)

// An Entry is one (key, value) pair of a number tree.
type Entry struct {
	Key   int
	Value any
}

// A Tree is a number tree's Nums array. Keys are strictly increasing.
type Tree struct {
	entries []Entry
}

// New builds a Tree from entries already sorted ascending by key.
// It fails if keys are out of order or duplicated.
func New(entries []Entry) (*Tree, error) {
	for i := 1; i < len(entries); i++ {
		if entries[i].Key <= entries[i-1].Key {
			return nil, errors.Errorf("number tree keys not strictly increasing: %d after %d",
				entries[i].Key, entries[i-1].Key)
		}
	}
	return &Tree{entries: entries}, nil
}

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Entries returns the entries in key order.
func (t *Tree) Entries() []Entry { return t.entries }

// Lookup returns the entry with the greatest key not exceeding index.
// The matched key becomes the start of the numbering range the caller
// is resolving.
func (t *Tree) Lookup(index int) (Entry, bool) {
	// First entry with key > index; the one before it is the match.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Key > index
	})
	if i == 0 {
		return Entry{}, false
	}
	return t.entries[i-1], true
}

// Insert adds a pair, keeping the array sorted. An existing entry with
// the same key is replaced.
func (t *Tree) Insert(key int, value any) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Key >= key
	})
	if i < len(t.entries) && t.entries[i].Key == key {
		t.entries[i].Value = value
		return
	}
	t.entries = append(t.entries, Entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = Entry{Key: key, Value: value}
}

// ClearRange deletes every entry after the one keyed afterKey (which
// itself survives) up to, and not including, the first entry whose key
// is at least upTo.
func (t *Tree) ClearRange(afterKey, upTo int) {
	start := 0
	for i, e := range t.entries {
		if e.Key == afterKey {
			start = i + 1
			break
		}
	}
	end := start
	for end < len(t.entries) && t.entries[end].Key < upTo {
		end++
	}
	t.entries = append(t.entries[:start], t.entries[end:]...)
}
