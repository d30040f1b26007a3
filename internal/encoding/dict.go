package encoding

import "strings"

// Dict decodes through an encoding dictionary's Differences array:
// integers set the next code, names remap that code to a glyph.
// Codes without a difference fall back to Latin-1.
type Dict struct {
	Elements []any
	Widths   Sizer
}

func (e *Dict) Decode(raw string) (string, float64) {
	w := orZero(e.Widths)
	var r strings.Builder
	var width float64
	for i := 0; i < len(raw); i++ {
		ch := rune(raw[i])
		n := -1
		for _, x := range e.Elements {
			switch v := x.(type) {
			case int64:
				n = int(v)
				continue
			case string:
				if int(raw[i]) == n {
					if g := glyphToRune[v]; g != 0 {
						ch = g
					} else if len(v) == 1 && v[0] < 0x80 {
						// letters and digits name themselves
						ch = rune(v[0])
					}
				}
				n++
			}
		}
		r.WriteRune(ch)
		width += w.CodeWidth(int(raw[i]))
	}
	return r.String(), width
}
