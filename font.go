package pdf

import (
	"log/slog"

	"github.com/pagemark/pdf/internal/encoding"
)

// A Font represents a font in a PDF file.
// It decodes show-text strings to UTF-8 and reports glyph widths in
// thousandths of a text-space unit.
type Font struct {
	encoding.Decoder
	name   string
	widths widths
}

func NewFont(v Value) *Font {
	w := getWidths(v)
	return &Font{
		name:    v.Key("BaseFont").Name(),
		Decoder: getDecoder(v, w),
		widths:  w,
	}
}

// Name returns the font's name (the BaseFont entry).
func (f *Font) Name() string { return f.name }

// Width returns the width of the given character code.
func (f *Font) Width(code int) float64 { return f.widths.CodeWidth(code) }

func getWidths(v Value) widths {
	switch v.Key("Subtype").Name() {
	case "Type0":
		return getWidths(v.Key("DescendantFonts").Index(0))
	case "CIDFontType0", "CIDFontType2":
		dw := v.Key("DW").Float64()
		if dw == 0 {
			dw = 1000
		}

		ww := v.Key("W")
		var spans []span
		i := 1
		for i < ww.Len() {
			s := span{
				first: int(ww.Index(i - 1).Int64()),
			}
			switch ww.Index(i).Kind() {
			case IntegerKind:
				s.last = int(ww.Index(i).Int64())
				s.fixed = ww.Index(i + 1).Float64()
				i += 3
			case ArrayKind:
				values := ww.Index(i)
				s.last = s.first + values.Len() - 1
				s.linear = make([]float64, values.Len())
				for j := 0; j < values.Len(); j++ {
					s.linear[j] = values.Index(j).Float64()
				}
				i += 2
			default:
				panic("bad W array: " + ww.String())
			}
			spans = append(spans, s)
		}

		return widths{defaultW: dw, spans: spans}
	default:
		dw := v.Key("FontDescriptor").Key("MissingWidth").Float64()

		ww := v.Key("Widths")
		if ww.Len() == 0 {
			return widths{defaultW: dw}
		}
		s := span{
			first:  int(v.Key("FirstChar").Int64()),
			last:   int(v.Key("LastChar").Int64()),
			linear: make([]float64, ww.Len()),
		}
		for i := 0; i < ww.Len(); i++ {
			s.linear[i] = ww.Index(i).Float64()
		}

		return widths{defaultW: dw, spans: []span{s}}
	}
}

func getDecoder(v Value, w widths) encoding.Decoder {
	enc := v.Key("Encoding")
	switch enc.Kind() {
	case NameKind:
		switch enc.Name() {
		case "WinAnsiEncoding":
			return encoding.WinANSI(w)
		case "MacRomanEncoding":
			return encoding.MacRoman(w)
		case "Identity-H", "Identity-V":
			return charmapEncoding(v, w)
		default:
			slog.Debug("unknown encoding", slog.String("name", enc.Name()))
			return encoding.NewNone(w)
		}
	case DictKind:
		return &encoding.Dict{
			Elements: enc.Key("Differences").RawElements(NameKind, IntegerKind),
			Widths:   w,
		}
	case NullKind:
		return charmapEncoding(v, w)
	default:
		slog.Debug("unexpected encoding", slog.String("encoding", enc.String()))
		return encoding.NewNone(w)
	}
}

// charmapEncoding builds a CMap decoder from the font's ToUnicode
// stream, falling back to PDFDocEncoding when there is none.
func charmapEncoding(v Value, w widths) encoding.Decoder {
	toUnicode := v.Key("ToUnicode")
	if toUnicode.Kind() != StreamKind {
		return encoding.NewPDFDoc(w)
	}

	n := -1
	m := encoding.CMap{Widths: w}
	ok := true
	Interpret(toUnicode.Reader(), func(stk *Stack, op string) {
		if !ok {
			return
		}
		switch op {
		case "findresource":
			stk.Pop() // category
			stk.Pop() // key
			stk.Push(newDict())
		case "begincmap":
			stk.Push(newDict())
		case "endcmap":
			stk.Pop()
		case "begincodespacerange":
			n = int(stk.Pop().Int64())
		case "endcodespacerange":
			if n < 0 {
				slog.Debug("missing begincodespacerange")
				ok = false
				return
			}
			for i := 0; i < n; i++ {
				hi, lo := stk.Pop().RawString(), stk.Pop().RawString()
				if len(lo) == 0 || len(lo) != len(hi) {
					slog.Debug("bad codespace range", slog.String("lo", lo), slog.String("hi", hi))
					ok = false
					return
				}
				m.Space[len(lo)-1] = append(m.Space[len(lo)-1], encoding.ByteRange{Lo: lo, Hi: hi})
			}
			n = -1
		case "beginbfchar":
			n = int(stk.Pop().Int64())
		case "endbfchar":
			if n < 0 {
				panic("missing beginbfchar")
			}
			for i := 0; i < n; i++ {
				repl, orig := stk.Pop().RawString(), stk.Pop().RawString()
				m.BFChars = append(m.BFChars, encoding.BFChar{Orig: orig, Repl: repl})
			}
			n = -1
		case "beginbfrange":
			n = int(stk.Pop().Int64())
		case "endbfrange":
			if n < 0 {
				panic("missing beginbfrange")
			}
			for i := 0; i < n; i++ {
				dst, srcHi, srcLo := stk.Pop(), stk.Pop().RawString(), stk.Pop().RawString()
				bfr := encoding.BFRange{Lo: srcLo, Hi: srcHi}
				switch dst.Kind() {
				case StringKind:
					bfr.DstS = dst.RawString()
				case ArrayKind:
					bfr.DstA = dst.RawElements(StringKind)
				}
				m.BFRanges = append(m.BFRanges, bfr)
			}
			n = -1
		case "defineresource":
			stk.Pop().Name() // category
			value := stk.Pop()
			stk.Pop().Name() // key
			stk.Push(value)
		default:
			slog.Debug("unhandled op", slog.String("op", op))
		}
	})
	if !ok {
		return encoding.NewNone(w)
	}
	return &m
}

// widths maps character codes to glyph widths. It satisfies
// encoding.Sizer so decoders can accumulate string advances.
type widths struct {
	defaultW float64
	spans    []span
}

type span struct {
	first, last int
	fixed       float64
	linear      []float64
}

func (w widths) CodeWidth(code int) float64 {
	for _, s := range w.spans {
		if code >= s.first && code <= s.last {
			if len(s.linear) > 0 {
				return s.linear[code-s.first]
			}
			return s.fixed
		}
	}
	return w.defaultW
}
