package state

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestEffectiveComposition(t *testing.T) {
	a := NewMatrix(2, 0, 0, 2, 10, 0)
	b := NewMatrix(1, 0, 0, 1, 5, 7)

	var s Stack
	s.PushCM(2, 0, 0, 2, 10, 0)
	s.PushCM(1, 0, 0, 1, 5, 7)

	want := a.Mul(b)
	if diff := cmp.Diff(want, s.Effective()); diff != "" {
		t.Error("effective transform mismatch:", diff)
	}

	// Outer frame applies first: the origin lands at a's translation,
	// then b's.
	x, y := s.Effective().Apply(0, 0)
	if x != 15 || y != 7 {
		t.Errorf("origin mapped to (%v, %v), want (15, 7)", x, y)
	}
}

func TestMarkRestoresExactly(t *testing.T) {
	var s Stack
	s.PushCM(2, 0, 0, 2, 0, 0)
	before := s.Effective()

	s.Mark()
	s.PushCM(1, 0, 0, 1, 3, 0)
	s.PushCM(0, 1, -1, 0, 0, 0)
	s.PushCM(5, 0, 0, 5, 1, 1)
	s.Unmark()

	if diff := cmp.Diff(before, s.Effective()); diff != "" {
		t.Error("Q did not restore the pre-q transform:", diff)
	}
}

func TestUnmatchedUnmark(t *testing.T) {
	var s Stack
	s.PushCM(3, 0, 0, 3, 0, 0)
	before := s.Effective()

	// More Q than q: each extra Q is a no-op, never an underflow.
	s.Unmark()
	s.Unmark()

	if diff := cmp.Diff(before, s.Effective()); diff != "" {
		t.Error("unmatched Q must not disturb the stack:", diff)
	}
}

func TestDropTextKeepsGraphics(t *testing.T) {
	var s Stack
	s.PushCM(1, 0, 0, 1, 100, 0)
	s.PushText(NewMatrix(1, 0, 0, 1, 0, 50))
	s.PushRender(Translation(8, 0))

	s.DropText()

	x, y := s.Effective().Apply(0, 0)
	if x != 100 || y != 0 {
		t.Errorf("after DropText origin is (%v, %v), want (100, 0)", x, y)
	}
}

func TestSiblingBranchesShareSafely(t *testing.T) {
	var s Stack
	s.PushCM(1, 0, 0, 1, 10, 10)

	s.Mark()
	s.PushCM(2, 0, 0, 2, 0, 0)
	branch := s.Effective()
	s.Unmark()

	s.Mark()
	s.PushCM(1, 0, 0, 1, -4, 0)
	s.Unmark()

	// The first branch's composed transform is unaffected by what the
	// second branch pushed after the shared prefix.
	if diff := cmp.Diff(NewMatrix(1, 0, 0, 1, 10, 10).Mul(NewMatrix(2, 0, 0, 2, 0, 0)), branch); diff != "" {
		t.Error("sibling branch observed foreign pushes:", diff)
	}
}

type fixedFont struct {
	name  string
	width float64 // per glyph, thousandths
}

func (f fixedFont) Name() string { return f.name }

func (f fixedFont) Decode(raw string) (string, float64) {
	return raw, f.width * float64(len(raw))
}

func TestParamsFontNotSet(t *testing.T) {
	m := NewManager()
	if _, err := m.Params("hi"); !errors.Is(err, ErrFontNotSet) {
		t.Errorf("got %v, want ErrFontNotSet", err)
	}
}

func TestParamsPlacement(t *testing.T) {
	m := NewManager()
	m.SetFont(fixedFont{name: "F1", width: 500}, 12)
	m.SetTM(1, 0, 0, 1, 72, 720)

	p, err := m.Params("abcd")
	if err != nil {
		t.Fatal(err)
	}

	if p.Tx != 72 || p.Ty != 720 {
		t.Errorf("run at (%v, %v), want (72, 720)", p.Tx, p.Ty)
	}
	// Four glyphs of width 500/1000 em at size 12.
	if want := 72 + 4*0.5*12.0; math.Abs(p.DisplacedTx-want) > 1e-9 {
		t.Errorf("displaced tx %v, want %v", p.DisplacedTx, want)
	}
	if p.FontHeight != 12 {
		t.Errorf("font height %v, want 12", p.FontHeight)
	}
	if p.Rotated || p.FlipVertical {
		t.Error("axis-aligned run misclassified")
	}
}

func TestParamsRotationAndFlip(t *testing.T) {
	m := NewManager()
	m.SetFont(fixedFont{name: "F1", width: 500}, 10)

	// 90 degree rotation.
	m.SetTM(0, 1, -1, 0, 0, 0)
	p, err := m.Params("x")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Rotated {
		t.Error("90 degree run should be flagged rotated")
	}

	// Vertical flip.
	m.SetTM(1, 0, 0, -1, 0, 400)
	p, err = m.Params("x")
	if err != nil {
		t.Fatal(err)
	}
	if !p.FlipVertical {
		t.Error("negative d should set FlipVertical")
	}
}

func TestAdvanceMovesNextRun(t *testing.T) {
	m := NewManager()
	m.SetFont(fixedFont{name: "F1", width: 1000}, 10)
	m.SetTM(1, 0, 0, 1, 0, 0)

	p, err := m.Params("ab") // 2 glyphs × 10 units
	if err != nil {
		t.Fatal(err)
	}
	m.Advance(p)

	q, err := m.Params("c")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(q.Tx-p.DisplacedTx) > 1e-9 {
		t.Errorf("second run starts at %v, want %v", q.Tx, p.DisplacedTx)
	}

	// TJ numeric adjustment of -1000 advances one em.
	m.Displace(-1000)
	r, err := m.Params("d")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Tx-(q.DisplacedTx+10)) > 1e-9 {
		t.Errorf("post-TJ run starts at %v, want %v", r.Tx, q.DisplacedTx+10)
	}
}
