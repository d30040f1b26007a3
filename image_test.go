package pdf

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/pagemark/pdf/internal/types"
)

// rawImage fabricates an image XObject whose stream data is data,
// with no filters applied.
func rawImage(data []byte, hdr types.Dict) Image {
	r := &Reader{f: bytes.NewReader(data), end: int64(len(data))}
	hdr["Subtype"] = types.Name("Image")
	hdr["Length"] = int64(len(data))
	return Image{Name: "Im0", V: Value{r: r, data: types.Stream{Hdr: hdr}}}
}

func grayHeader(w, h int) types.Dict {
	return types.Dict{
		"Width":            int64(w),
		"Height":           int64(h),
		"BitsPerComponent": int64(8),
		"ColorSpace":       types.Name("DeviceGray"),
	}
}

func TestDecodeGray(t *testing.T) {
	img := rawImage([]byte{0x00, 0x40, 0x80, 0xc0}, grayHeader(2, 2))
	if got := img.PixelMode(); got != ModeGray {
		t.Fatalf("PixelMode = %v, want %v", got, ModeGray)
	}
	m, err := img.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := m.At(1, 1); got != (color.Gray{Y: 0xc0}) {
		t.Errorf("pixel (1,1) = %v, want gray 0xc0", got)
	}
}

func TestDecodeGrayShortStream(t *testing.T) {
	// three samples for a 4x4 image: the rest of the raster stays black
	img := rawImage([]byte{0x11, 0x22, 0x33}, grayHeader(4, 4))
	m, err := img.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := m.At(2, 0); got != (color.Gray{Y: 0x33}) {
		t.Errorf("pixel (2,0) = %v, want gray 0x33", got)
	}
	if got := m.At(3, 3); got != (color.Gray{}) {
		t.Errorf("pixel (3,3) = %v, want gray 0", got)
	}
}
