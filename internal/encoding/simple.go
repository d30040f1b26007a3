package encoding

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// A Sizer reports the advance width of a character code in
// thousandths of a text-space unit. Fonts provide it from their
// width tables.
type Sizer interface {
	CodeWidth(code int) float64
}

// A Decoder maps raw show-text bytes to UTF-8 text, also reporting
// the summed advance width of the decoded codes.
type Decoder interface {
	Decode(raw string) (text string, width float64)
}

// zeroSizer stands in when no width information is available.
type zeroSizer struct{}

func (zeroSizer) CodeWidth(int) float64 { return 0 }

func orZero(w Sizer) Sizer {
	if w == nil {
		return zeroSizer{}
	}
	return w
}

// Simple decodes one byte per glyph through a character map.
type Simple struct {
	cm *charmap.Charmap
	w  Sizer
}

// WinANSI returns the WinAnsiEncoding decoder (Windows code page 1252).
func WinANSI(w Sizer) *Simple {
	return &Simple{cm: charmap.Windows1252, w: orZero(w)}
}

// MacRoman returns the MacRomanEncoding decoder.
func MacRoman(w Sizer) *Simple {
	return &Simple{cm: charmap.Macintosh, w: orZero(w)}
}

func (s *Simple) Decode(raw string) (string, float64) {
	var b strings.Builder
	var width float64
	for i := 0; i < len(raw); i++ {
		b.WriteRune(s.cm.DecodeByte(raw[i]))
		width += s.w.CodeWidth(int(raw[i]))
	}
	return b.String(), width
}

// PDFDoc decodes one byte per glyph through PDFDocEncoding. It is the
// fallback when a font declares no usable encoding.
type PDFDoc struct {
	w Sizer
}

func NewPDFDoc(w Sizer) *PDFDoc { return &PDFDoc{w: orZero(w)} }

func (d *PDFDoc) Decode(raw string) (string, float64) {
	var b strings.Builder
	var width float64
	for i := 0; i < len(raw); i++ {
		b.WriteRune(pdfDocEncoding[raw[i]])
		width += d.w.CodeWidth(int(raw[i]))
	}
	return b.String(), width
}

// None passes bytes through as Latin-1. Used when the encoding is
// unrecognized so the caller still gets positionable output.
type None struct {
	w Sizer
}

func NewNone(w Sizer) *None { return &None{w: orZero(w)} }

func (d *None) Decode(raw string) (string, float64) {
	var b strings.Builder
	var width float64
	for i := 0; i < len(raw); i++ {
		b.WriteRune(rune(raw[i]))
		width += d.w.CodeWidth(int(raw[i]))
	}
	return b.String(), width
}
