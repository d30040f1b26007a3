package state

// A frame is one node of the transform stack. Frames are never
// mutated after creation: pushing links a new frame to the current
// top, popping follows the link back, so sibling q/Q branches can
// share a common prefix safely.
type frame struct {
	m      Matrix
	parent *frame

	text   bool // pushed by a text-positioning operator, dropped at ET
	render bool // show-text displacement, dropped at the next positioning op
	marker bool // q boundary; carries no transform
}

// A Stack tracks the active transforms of a content stream as a
// persistent, structurally shared list.
type Stack struct {
	top *frame
}

func (s *Stack) push(f *frame) {
	f.parent = s.top
	s.top = f
}

// PushCM records a graphics-space transform (the cm operator).
func (s *Stack) PushCM(a, b, c, d, e, f float64) {
	s.push(&frame{m: NewMatrix(a, b, c, d, e, f)})
}

// PushText records a text-space transform (Tm, Td and friends).
func (s *Stack) PushText(m Matrix) {
	s.push(&frame{m: m, text: true})
}

// PushRender records the displacement left behind by a show-text
// operation.
func (s *Stack) PushRender(m Matrix) {
	s.push(&frame{m: m, text: true, render: true})
}

// Mark records a q boundary.
func (s *Stack) Mark() {
	s.push(&frame{marker: true})
}

// Unmark discards every frame pushed since the most recent q boundary,
// and the boundary itself. An unmatched Q is a no-op: the stack never
// pops past its floor, however unbalanced the input.
func (s *Stack) Unmark() {
	for f := s.top; f != nil; f = f.parent {
		if f.marker {
			s.top = f.parent
			return
		}
	}
}

// DropText rebuilds the stack without text and render frames, as when
// a text object closes. Shared frames are not edited; survivors are
// relinked into a fresh chain only above the first removed frame.
func (s *Stack) DropText() {
	s.drop(func(f *frame) bool { return f.text })
}

// DropRender rebuilds the stack without render frames, as when a
// text-positioning operator resets the show-text displacement.
func (s *Stack) DropRender() {
	s.drop(func(f *frame) bool { return f.render })
}

func (s *Stack) drop(gone func(*frame) bool) {
	var keep []*frame
	dropped := false
	for f := s.top; f != nil; f = f.parent {
		if gone(f) {
			dropped = true
			continue
		}
		keep = append(keep, f)
	}
	if !dropped {
		return
	}
	var top *frame
	for i := len(keep) - 1; i >= 0; i-- {
		f := keep[i]
		nf := &frame{m: f.m, parent: top, text: f.text, render: f.render, marker: f.marker}
		top = nf
	}
	s.top = top
}

// Effective returns the composition of all active transforms, applying
// the outermost (first pushed) frame first and the innermost last.
func (s *Stack) Effective() Matrix {
	var frames []*frame
	for f := s.top; f != nil; f = f.parent {
		if !f.marker {
			frames = append(frames, f)
		}
	}
	eff := Identity()
	for i := len(frames) - 1; i >= 0; i-- {
		eff = eff.Mul(frames[i].m)
	}
	return eff
}
