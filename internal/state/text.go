package state

import (
	"math"

	"github.com/pkg/errors"
)

// ErrFontNotSet reports a show-text operator reached before any Tf.
// Unbalanced nesting is absorbed silently, but text with no font is a
// content-stream defect that cannot be worked around.
var ErrFontNotSet = errors.New("font not set: no Tf before show-text operator")

// A Font decodes raw show-text bytes to UTF-8 and reports the summed
// glyph advance in thousandths of a text-space unit.
type Font interface {
	Name() string
	Decode(raw string) (text string, width float64)
}

// A Manager tracks the transform stack and the scalar text state of
// one content stream walk.
//
// Methods correspond to the text state and positioning operators of
// ISO 32000-2 tables 103 and 106, plus q/Q/cm from table 56.
type Manager struct {
	Stack

	Tc   float64 // character spacing
	Tw   float64 // word spacing
	Tz   float64 // horizontal scaling, percent
	TL   float64 // leading
	Ts   float64 // rise
	font Font
	size float64
}

func NewManager() *Manager {
	return &Manager{Tz: 100}
}

// SetParam applies one of the scalar text state operators.
func (m *Manager) SetParam(op string, v float64) {
	switch op {
	case "Tc":
		m.Tc = v
	case "Tw":
		m.Tw = v
	case "Tz":
		m.Tz = v
	case "TL":
		m.TL = v
	case "Ts":
		m.Ts = v
	}
}

func (m *Manager) SetFont(f Font, size float64) {
	m.font = f
	m.size = size
}

func (m *Manager) Font() (Font, float64) { return m.font, m.size }

// BT opens a text object. Any text transform left over from a
// malformed earlier object is discarded.
func (m *Manager) BT() { m.DropText() }

// ET closes a text object, discarding text transforms but keeping
// graphics transforms.
func (m *Manager) ET() { m.DropText() }

// SetTM replaces the text matrix (the Tm operator).
func (m *Manager) SetTM(a, b, c, d, e, f float64) {
	m.DropText()
	m.PushText(NewMatrix(a, b, c, d, e, f))
}

// Translate moves the text position (the Td operator), clearing any
// show-text displacement first.
func (m *Manager) Translate(tx, ty float64) {
	m.DropRender()
	m.PushText(Translation(tx, ty))
}

// NextLine starts the next line using the current leading (T*).
func (m *Manager) NextLine() {
	m.Translate(0, -m.TL)
}

// Displace applies a TJ numeric adjustment, given in thousandths of a
// text-space unit (positive values move the position left).
func (m *Manager) Displace(v float64) {
	tx := -v / 1000 * m.size * m.Tz / 100
	m.PushRender(Translation(tx, 0))
}

// Advance records the displacement of text just shown, so a following
// show-text in the same object starts where this one ended.
func (m *Manager) Advance(p Params) {
	m.PushRender(Translation(p.wordTx, 0))
}

// Params captures the state needed to place one shown string: the
// effective transform and the scalars that determine its advance.
// It corresponds to a single Tj, or one string element of a TJ array.
func (m *Manager) Params(raw string) (Params, error) {
	if m.font == nil {
		return Params{}, ErrFontNotSet
	}
	text, w0 := m.font.Decode(raw)

	p := Params{
		Text:     text,
		FontName: m.font.Name(),
		FontSize: m.size,
		eff:      m.Effective(),
	}

	var glyphs, spaces float64
	for _, r := range text {
		if r == ' ' {
			spaces++
		}
		glyphs++
	}
	p.wordTx = (w0/1000*m.size + glyphs*m.Tc + spaces*m.Tw) * m.Tz / 100

	a, b, c, d, _, _ := p.eff.Components()
	switch deg := orient(a, b); {
	case deg == 90 || deg == 270:
		p.Rotated = true
		p.eff = NewMatrix(1, -b, -c, 1, 0, 0).Mul(p.eff)
	case deg == 180 && a < -1e-6:
		p.Rotated = true
		p.eff = NewMatrix(-1, 0, 0, -1, 0, 0).Mul(p.eff)
	}

	a, b, _, d, e, f := p.eff.Components()
	p.Tx = e
	p.Ty = f + m.Ts*m.size*d
	p.DisplacedTx = e + p.wordTx*a
	p.FontHeight = m.size * math.Hypot(b, d)
	p.FlipVertical = d < -1e-6
	return p, nil
}

// orient returns the rotation of the transform's x axis in degrees,
// rounded to the nearest whole degree in [0, 360).
func orient(a, b float64) int {
	deg := int(math.Round(math.Atan2(b, a) * 180 / math.Pi))
	return ((deg % 360) + 360) % 360
}

// Params describes one captured show-text operation.
type Params struct {
	Text         string
	FontName     string
	FontSize     float64
	Tx, Ty       float64
	DisplacedTx  float64
	FontHeight   float64
	FlipVertical bool
	Rotated      bool

	eff    Matrix
	wordTx float64
}

// A Run is the positioned text produced by one show-text operation
// within a text object. Runs are immutable once created.
type Run struct {
	Text         string
	FontName     string
	Tx, Ty       float64
	FontSize     float64
	FontHeight   float64
	EndX         float64
	FlipVertical bool
}

// Run converts captured parameters to their output form.
func (p Params) Run() Run {
	return Run{
		Text:         p.Text,
		FontName:     p.FontName,
		Tx:           p.Tx,
		Ty:           p.Ty,
		FontSize:     p.FontSize,
		FontHeight:   p.FontHeight,
		EndX:         p.DisplacedTx,
		FlipVertical: p.FlipVertical,
	}
}
