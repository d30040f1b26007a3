// Extraction of raster images from page resources.

package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/ccitt"
)

// A PixelMode classifies the sample layout of an image XObject,
// derived from its color space and bit depth.
type PixelMode int

const (
	ModeUnknown PixelMode = iota
	ModeBilevel
	ModeGray
	ModeRGB
	ModeCMYK
	ModeIndexed
)

func (m PixelMode) String() string {
	switch m {
	case ModeBilevel:
		return "1"
	case ModeGray:
		return "L"
	case ModeRGB:
		return "RGB"
	case ModeCMYK:
		return "CMYK"
	case ModeIndexed:
		return "P"
	}
	return "?"
}

// components returns the number of color components per sample.
func (m PixelMode) components() int {
	switch m {
	case ModeBilevel, ModeGray, ModeIndexed:
		return 1
	case ModeRGB:
		return 3
	case ModeCMYK:
		return 4
	}
	return 0
}

// colorSpaceMode maps a ColorSpace entry to a PixelMode. ICCBased
// spaces classify by their component count N; Indexed keeps its own
// mode and resolves the base space at decode time.
func colorSpaceMode(cs Value, bpc int) PixelMode {
	switch cs.Kind() {
	case NameKind:
		switch cs.Name() {
		case "DeviceGray", "CalGray":
			if bpc == 1 {
				return ModeBilevel
			}
			return ModeGray
		case "DeviceRGB", "CalRGB":
			return ModeRGB
		case "DeviceCMYK":
			return ModeCMYK
		}
	case ArrayKind:
		switch cs.Index(0).Name() {
		case "Indexed":
			return ModeIndexed
		case "ICCBased":
			switch cs.Index(1).Key("N").Int64() {
			case 1:
				if bpc == 1 {
					return ModeBilevel
				}
				return ModeGray
			case 3:
				return ModeRGB
			case 4:
				return ModeCMYK
			}
		case "Separation":
			return ModeGray
		case "DeviceN":
			return ModeGray
		}
	}
	return ModeUnknown
}

// An Image is an image XObject found in a page's resources.
type Image struct {
	Name string
	V    Value
}

// Images returns the image XObjects reachable from the page's
// resource dictionary.
func (p Page) Images() []Image {
	xobj := p.Resources().Key("XObject")
	var imgs []Image
	for _, name := range xobj.Keys() {
		v := xobj.Key(name)
		if v.Key("Subtype").Name() == "Image" {
			imgs = append(imgs, Image{Name: name, V: v})
		}
	}
	return imgs
}

// PixelMode reports the classified sample layout of the image.
func (img Image) PixelMode() PixelMode {
	return colorSpaceMode(img.V.Key("ColorSpace"), int(img.V.Key("BitsPerComponent").Int64()))
}

// Decode decodes the image data into an image.Image. JPEG payloads go
// through image/jpeg and CCITT fax data through golang.org/x/image;
// raw rasters are assembled directly from the decoded samples.
// JPXDecode payloads are not supported.
func (img Image) Decode() (image.Image, error) {
	v := img.V
	data, err := v.DecodedBytes()
	if err != nil {
		return nil, err
	}

	w := int(v.Key("Width").Int64())
	h := int(v.Key("Height").Int64())
	if w <= 0 || h <= 0 {
		return nil, errors.New("image missing Width or Height")
	}

	switch last := lastFilter(v); last {
	case "DCTDecode":
		return jpeg.Decode(bytes.NewReader(data))
	case "CCITTFaxDecode":
		return img.decodeCCITT(data, w, h)
	case "JPXDecode":
		return nil, errors.New("JPXDecode: JPEG 2000 images are not supported")
	case "JBIG2Decode":
		return nil, errors.New("JBIG2Decode: JBIG2 images are not supported")
	}

	bpc := int(v.Key("BitsPerComponent").Int64())
	if bpc == 0 {
		bpc = 8
	}
	return img.decodeRaster(data, w, h, bpc)
}

func lastFilter(v Value) string {
	f := v.Key("Filter")
	switch f.Kind() {
	case NameKind:
		return f.Name()
	case ArrayKind:
		if n := f.Len(); n > 0 {
			return f.Index(n - 1).Name()
		}
	}
	return ""
}

func (img Image) decodeCCITT(data []byte, w, h int) (image.Image, error) {
	parms := img.V.Key("DecodeParms")
	if parms.Kind() == ArrayKind {
		parms = parms.Index(parms.Len() - 1)
	}
	st := ccitt.Group3
	if parms.Key("K").Int64() < 0 {
		st = ccitt.Group4
	}
	opts := &ccitt.Options{
		Invert: !parms.Key("BlackIs1").Bool(),
		Align:  parms.Key("EncodedByteAlign").Bool(),
	}
	rd := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, st, w, h, opts)
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "ccitt decode")
	}
	return bilevelImage(raw, w, h), nil
}

// decodeRaster assembles an image from uncompressed samples.
func (img Image) decodeRaster(data []byte, w, h, bpc int) (image.Image, error) {
	mode := img.PixelMode()
	switch mode {
	case ModeBilevel:
		return bilevelImage(data, w, h), nil

	case ModeGray:
		if bpc != 8 {
			return nil, errors.Errorf("unsupported gray bit depth %d", bpc)
		}
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h && y*w < len(data); y++ {
			row := data[y*w:]
			copy(out.Pix[y*out.Stride:], row[:min(w, len(row))])
		}
		return out, nil

	case ModeRGB:
		if bpc != 8 {
			return nil, errors.Errorf("unsupported rgb bit depth %d", bpc)
		}
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 3
				if i+2 >= len(data) {
					break
				}
				out.SetNRGBA(x, y, color.NRGBA{R: data[i], G: data[i+1], B: data[i+2], A: 0xff})
			}
		}
		return out, nil

	case ModeCMYK:
		if bpc != 8 {
			return nil, errors.Errorf("unsupported cmyk bit depth %d", bpc)
		}
		out := image.NewCMYK(image.Rect(0, 0, w, h))
		n := min(len(out.Pix), len(data))
		copy(out.Pix[:n], data[:n])
		return out, nil

	case ModeIndexed:
		return img.decodeIndexed(data, w, h, bpc)
	}
	return nil, errors.Errorf("unsupported color space %v", img.V.Key("ColorSpace"))
}

// decodeIndexed maps palette indices through the Indexed lookup table.
// Only RGB base spaces are supported.
func (img Image) decodeIndexed(data []byte, w, h, bpc int) (image.Image, error) {
	cs := img.V.Key("ColorSpace")
	base := cs.Index(1)
	if colorSpaceMode(base, 8) != ModeRGB {
		return nil, errors.Errorf("unsupported indexed base space %v", base)
	}
	var lookup []byte
	lk := cs.Index(3)
	switch lk.Kind() {
	case StringKind:
		lookup = []byte(lk.RawString())
	case StreamKind:
		var err error
		lookup, err = lk.DecodedBytes()
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("indexed color space missing lookup table")
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := sampleAt(data, w, x, y, bpc)
			if 3*idx+2 >= len(lookup) {
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{R: lookup[3*idx], G: lookup[3*idx+1], B: lookup[3*idx+2], A: 0xff})
		}
	}
	return out, nil
}

// sampleAt extracts the x'th sample of row y for sub-byte bit depths.
func sampleAt(data []byte, w, x, y, bpc int) int {
	rowBytes := (w*bpc + 7) / 8
	bit := x * bpc
	i := y*rowBytes + bit/8
	if i >= len(data) {
		return 0
	}
	shift := 8 - bpc - bit%8
	mask := (1 << bpc) - 1
	return int(data[i]>>shift) & mask
}

func bilevelImage(data []byte, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	rowBytes := (w + 7) / 8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*rowBytes + x/8
			if i >= len(data) {
				break
			}
			if data[i]&(0x80>>uint(x%8)) == 0 {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}
