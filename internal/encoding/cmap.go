package encoding

import (
	"log/slog"
	"strings"
)

type ByteRange struct {
	Lo string
	Hi string
}

type BFChar struct {
	Orig string
	Repl string
}

type BFRange struct {
	Lo   string
	Hi   string
	DstS string
	DstA []any
}

// CMap decodes multi-byte character codes. Space holds the codespace
// ranges indexed by code length minus one.
type CMap struct {
	Widths   Sizer
	Space    [4][]ByteRange
	BFRanges []BFRange
	BFChars  []BFChar
}

func (m *CMap) Decode(raw string) (string, float64) {
	sz := orZero(m.Widths)
	var w float64
	var r strings.Builder
Parse:
	for len(raw) > 0 {
		var code int
		for n := 1; n <= 4 && n <= len(raw); n++ {
			code = (code << 8) | int(raw[n-1])
			for _, space := range m.Space[n-1] {
				if space.Lo <= raw[:n] && raw[:n] <= space.Hi {
					text := raw[:n]
					raw = raw[n:]
					for _, bfchar := range m.BFChars {
						if len(bfchar.Orig) == n && bfchar.Orig == text {
							r.WriteString(UTF16Decode(bfchar.Repl))
							w += sz.CodeWidth(code)
							continue Parse
						}
					}
					for _, bfrange := range m.BFRanges {
						if len(bfrange.Lo) == n && bfrange.Lo <= text && text <= bfrange.Hi {
							switch {
							case len(bfrange.DstS) > 0:
								s := bfrange.DstS
								if bfrange.Lo != text {
									// not at the start of the range, offset the last byte
									b := []byte(s)
									b[len(b)-1] += text[len(text)-1] - bfrange.Lo[len(bfrange.Lo)-1]
									s = string(b)
								}
								r.WriteString(UTF16Decode(s))
								w += sz.CodeWidth(code)
								continue Parse
							case len(bfrange.DstA) > 0:
								i := text[len(text)-1] - bfrange.Lo[len(bfrange.Lo)-1]
								if int(i) < len(bfrange.DstA) {
									if s, ok := bfrange.DstA[int(i)].(string); ok {
										r.WriteString(UTF16Decode(s))
										w += sz.CodeWidth(code)
										continue Parse
									}
								}
							default:
								slog.Debug("unknown bfrange dst", slog.Any("dst", bfrange.DstA))
							}
							r.WriteRune(NoRune)
							continue Parse
						}
					}
					r.WriteRune(NoRune)
					continue Parse
				}
			}
		}
		slog.Debug("no code space found")
		r.WriteRune(NoRune)
		raw = raw[1:]
	}
	return r.String(), w
}
