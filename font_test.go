package pdf

import (
	"testing"

	"github.com/pagemark/pdf/internal/types"
)

func simpleFontDict() types.Dict {
	return types.Dict{
		"Type":      types.Name("Font"),
		"Subtype":   types.Name("Type1"),
		"BaseFont":  types.Name("Helvetica-Bold"),
		"Encoding":  types.Name("WinAnsiEncoding"),
		"FirstChar": int64(65),
		"LastChar":  int64(66),
		"Widths":    types.Array{int64(500), int64(600)},
		"FontDescriptor": types.Dict{
			"MissingWidth": int64(250),
		},
	}
}

func TestFontWidths(t *testing.T) {
	f := NewFont(Value{data: simpleFontDict()})

	if got := f.Name(); got != "Helvetica-Bold" {
		t.Errorf("Name = %q", got)
	}
	for code, want := range map[int]float64{
		65: 500,
		66: 600,
		67: 250, // outside FirstChar..LastChar
		12: 250,
	} {
		if got := f.Width(code); got != want {
			t.Errorf("Width(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestFontDecodeReportsWidth(t *testing.T) {
	f := NewFont(Value{data: simpleFontDict()})

	text, width := f.Decode("AB")
	if text != "AB" {
		t.Errorf("text = %q, want AB", text)
	}
	if width != 1100 {
		t.Errorf("width = %v, want 1100", width)
	}
}

func TestCIDFontWidths(t *testing.T) {
	cid := types.Dict{
		"Subtype": types.Name("CIDFontType2"),
		"DW":      int64(1000),
		"W": types.Array{
			int64(1), types.Array{int64(500), int64(600)},
			int64(10), int64(12), int64(750),
		},
	}
	v := Value{data: types.Dict{
		"Subtype":         types.Name("Type0"),
		"BaseFont":        types.Name("Noto"),
		"Encoding":        types.Name("Identity-H"),
		"DescendantFonts": types.Array{cid},
	}}
	f := NewFont(v)

	for code, want := range map[int]float64{
		1:  500,
		2:  600,
		10: 750,
		12: 750,
		99: 1000,
	} {
		if got := f.Width(code); got != want {
			t.Errorf("Width(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestFontDifferencesEncoding(t *testing.T) {
	d := simpleFontDict()
	d["Encoding"] = types.Dict{
		"Differences": types.Array{int64(65), types.Name("bullet")},
	}
	f := NewFont(Value{data: d})

	text, width := f.Decode("AB")
	if text != "•B" {
		t.Errorf("text = %q, want •B", text)
	}
	if width != 1100 {
		t.Errorf("width = %v, want 1100", width)
	}
}
