package numtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	if _, err := New([]Entry{{Key: 0}, {Key: 4}, {Key: 7}}); err != nil {
		t.Fatal(err)
	}
	if _, err := New([]Entry{{Key: 4}, {Key: 4}}); err == nil {
		t.Error("duplicate keys should be rejected")
	}
	if _, err := New([]Entry{{Key: 4}, {Key: 0}}); err == nil {
		t.Error("descending keys should be rejected")
	}
}

func TestLookup(t *testing.T) {
	tree, err := New([]Entry{{Key: 0, Value: "r"}, {Key: 4, Value: "D"}, {Key: 7, Value: "A"}})
	if err != nil {
		t.Fatal(err)
	}

	testCases := map[string]struct {
		index   int
		wantKey int
		wantVal string
		ok      bool
	}{
		"exact first":  {index: 0, wantKey: 0, wantVal: "r", ok: true},
		"within first": {index: 3, wantKey: 0, wantVal: "r", ok: true},
		"exact middle": {index: 4, wantKey: 4, wantVal: "D", ok: true},
		"within last":  {index: 100, wantKey: 7, wantVal: "A", ok: true},
		"before first": {index: -1, ok: false},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e, ok := tree.Lookup(tc.index)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if e.Key != tc.wantKey || e.Value != tc.wantVal {
				t.Errorf("got (%d, %v), want (%d, %v)", e.Key, e.Value, tc.wantKey, tc.wantVal)
			}
		})
	}
}

func TestInsertKeepsOrder(t *testing.T) {
	keys := rand.New(rand.NewSource(1)).Perm(50)
	tree := &Tree{}
	for _, k := range keys {
		tree.Insert(k, k*10)
	}

	got := tree.Entries()
	if len(got) != len(keys) {
		t.Fatalf("len = %d, want %d", len(got), len(keys))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Key < got[j].Key }) {
		t.Error("entries not sorted after random insertions")
	}
	for _, e := range got {
		if e.Value != e.Key*10 {
			t.Errorf("entry %d carries value %v", e.Key, e.Value)
		}
	}

	tree.Insert(7, "replaced")
	if e, _ := tree.Lookup(7); e.Value != "replaced" {
		t.Error("inserting an existing key should replace its value")
	}
	if tree.Len() != len(keys) {
		t.Error("replacement must not grow the tree")
	}
}

func TestClearRange(t *testing.T) {
	build := func() *Tree {
		tree, err := New([]Entry{{Key: 0}, {Key: 4}, {Key: 7}, {Key: 9}, {Key: 12}})
		if err != nil {
			t.Fatal(err)
		}
		return tree
	}

	t.Run("interior range", func(t *testing.T) {
		tree := build()
		tree.ClearRange(4, 12)
		want := []Entry{{Key: 0}, {Key: 4}, {Key: 12}}
		if diff := cmp.Diff(want, tree.Entries()); diff != "" {
			t.Error("entries mismatch:", diff)
		}
	})

	t.Run("absent anchor clears from start", func(t *testing.T) {
		tree := build()
		tree.ClearRange(-1, 7)
		want := []Entry{{Key: 7}, {Key: 9}, {Key: 12}}
		if diff := cmp.Diff(want, tree.Entries()); diff != "" {
			t.Error("entries mismatch:", diff)
		}
	})

	t.Run("boundary entry survives", func(t *testing.T) {
		tree := build()
		tree.ClearRange(0, 9)
		want := []Entry{{Key: 0}, {Key: 9}, {Key: 12}}
		if diff := cmp.Diff(want, tree.Entries()); diff != "" {
			t.Error("entries mismatch:", diff)
		}
	})
}
