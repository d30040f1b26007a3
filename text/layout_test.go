package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pagemark/pdf/internal/state"
)

func TestLayoutEmpty(t *testing.T) {
	if got := Layout(nil); got != "" {
		t.Errorf("Layout(nil) = %q, want empty", got)
	}
	if got := Layout([]state.Run{{Text: "", Tx: 10}}); got != "" {
		t.Errorf("Layout of empty runs = %q, want empty", got)
	}
}

func TestLayoutColumns(t *testing.T) {
	// every sample advances 5 units per char, so char width is 5
	runs := []state.Run{
		{Text: "Hello", Tx: 0, EndX: 25, Ty: 100},
		{Text: "World", Tx: 50, EndX: 75, Ty: 100},
		{Text: "Next", Tx: 0, EndX: 20, Ty: 90},
	}
	want := "Hello     World\nNext"
	if diff := cmp.Diff(want, Layout(runs)); diff != "" {
		t.Errorf("Layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutSortsWithinLine(t *testing.T) {
	runs := []state.Run{
		{Text: "right", Tx: 30, EndX: 55, Ty: 10},
		{Text: "left", Tx: 0, EndX: 20, Ty: 10},
	}
	want := "left  right"
	if diff := cmp.Diff(want, Layout(runs)); diff != "" {
		t.Errorf("Layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutVerticalGap(t *testing.T) {
	// char width 5; a 40-unit drop is four line heights, three blank
	runs := []state.Run{
		{Text: "top", Tx: 0, EndX: 15, Ty: 100},
		{Text: "bottom", Tx: 0, EndX: 30, Ty: 60},
	}
	want := "top\n\n\n\nbottom"
	if diff := cmp.Diff(want, Layout(runs)); diff != "" {
		t.Errorf("Layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutOptions(t *testing.T) {
	runs := []state.Run{
		{Text: "top", Tx: 0, EndX: 15, Ty: 100},
		{Text: "bottom", Tx: 0, EndX: 30, Ty: 60},
	}

	t.Run("no vertical spacing", func(t *testing.T) {
		want := "top\nbottom"
		if diff := cmp.Diff(want, Layout(runs, SpaceVertically(false))); diff != "" {
			t.Errorf("Layout mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scale weight", func(t *testing.T) {
		// with uniform per-char advances the weighting exponent must
		// not change the estimated cell width
		if diff := cmp.Diff(Layout(runs), Layout(runs, ScaleWeight(2))); diff != "" {
			t.Errorf("uniform runs should be weight-invariant:\n%s", diff)
		}
	})
}

func TestLayoutGroupsByRoundedY(t *testing.T) {
	// 10.4 and 9.8 round to the same line
	runs := []state.Run{
		{Text: "aa", Tx: 0, EndX: 10, Ty: 10.4},
		{Text: "bb", Tx: 20, EndX: 30, Ty: 9.8},
	}
	want := "aa  bb"
	if diff := cmp.Diff(want, Layout(runs)); diff != "" {
		t.Errorf("Layout mismatch (-want +got):\n%s", diff)
	}
}
