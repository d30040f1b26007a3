// Text extraction: walking content streams through the text state.

package pdf

import (
	"fmt"
	"runtime/debug"

	"github.com/pagemark/pdf/internal/state"
	"github.com/pagemark/pdf/text"
)

// runs walks the page's content streams and captures one state.Run per
// shown string. Rotated text is dropped when stripRotated is set.
func (p Page) runs(stripRotated bool) (rr []state.Run, err error) {
	defer func() {
		if e := recover(); e != nil {
			rr = nil
			err = fmt.Errorf("failed to walk content stream: %v\n%s", e, debug.Stack())
		}
	}()

	fonts := make(map[string]*Font)
	for _, name := range p.Fonts() {
		fonts[name] = p.Font(name)
	}

	m := state.NewManager()

	show := func(raw string) {
		params, perr := m.Params(raw)
		if perr != nil {
			err = perr
			return
		}
		if !stripRotated || !params.Rotated {
			rr = append(rr, params.Run())
		}
		m.Advance(params)
	}

	forEachStream(p, func(stk *Stack, op string) {
		if err != nil {
			return
		}
		n := stk.Len()
		args := make([]Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "q":
			m.Mark()
		case "Q":
			m.Unmark()
		case "cm":
			if len(args) < 6 {
				return
			}
			m.PushCM(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64(), args[4].Float64(), args[5].Float64())

		case "BT":
			m.BT()
		case "ET":
			m.ET()

		case "Tc", "Tw", "Tz", "TL", "Ts":
			if len(args) < 1 {
				return
			}
			m.SetParam(op, args[0].Float64())
		case "Tf":
			if len(args) < 2 {
				return
			}
			f := fonts[args[0].Name()]
			if f == nil {
				// unknown resource name, decode as Latin-1
				f = NewFont(Value{})
				fonts[args[0].Name()] = f
			}
			m.SetFont(f, args[1].Float64())

		case "Tm":
			if len(args) < 6 {
				return
			}
			m.SetTM(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64(), args[4].Float64(), args[5].Float64())
		case "Td":
			if len(args) < 2 {
				return
			}
			m.Translate(args[0].Float64(), args[1].Float64())
		case "TD":
			if len(args) < 2 {
				return
			}
			m.SetParam("TL", -args[1].Float64())
			m.Translate(args[0].Float64(), args[1].Float64())
		case "T*":
			m.NextLine()

		case `"`:
			if len(args) < 3 {
				return
			}
			m.SetParam("Tw", args[0].Float64())
			m.SetParam("Tc", args[1].Float64())
			args = args[2:]
			fallthrough
		case `'`:
			m.NextLine()
			fallthrough
		case "Tj":
			if len(args) < 1 {
				return
			}
			show(args[0].RawString())
		case "TJ":
			if len(args) < 1 {
				return
			}
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				e := arr.Index(i)
				switch e.Kind() {
				case StringKind:
					show(e.RawString())
				case IntegerKind, RealKind:
					m.Displace(e.Float64())
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return rr, nil
}

// Text returns the page's text in content-stream order, grouped into
// parts of equal size and weight.
func (p Page) Text() (text.Text, error) {
	rr, err := p.runs(false)
	if err != nil {
		return nil, err
	}

	var out text.Builder
	for _, r := range rr {
		out.Render(r.Tx, r.Ty, r.EndX-r.Tx, r.FontHeight, r.FontName, r.Text)
	}
	return out.Text(), nil
}

// TextLayout renders the page's text on a fixed-width grid that
// preserves the horizontal and vertical placement of each run.
// Rotated text is omitted.
func (p Page) TextLayout(opts ...text.LayoutOption) (string, error) {
	rr, err := p.runs(true)
	if err != nil {
		return "", err
	}
	return text.Layout(rr, opts...), nil
}
