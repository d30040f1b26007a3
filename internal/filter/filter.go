// Package filter implements the PDF stream filters used to encode and
// decode stream payloads: FlateDecode (with TIFF and PNG predictors),
// LZWDecode, RunLengthDecode, ASCIIHexDecode and ASCII85Decode.
//
// DCTDecode, JPXDecode and CCITTFaxDecode payloads are opaque at this
// layer; decoding them is the job of an image codec, so Chain returns
// the raw bytes unchanged when one of them is reached.
package filter

import (
	"github.com/pkg/errors"

	"github.com/pagemark/pdf/internal/types"
)

// Errors reported by the decoders. Callers match with errors.Is.
var (
	ErrUnsupportedFilter    = errors.New("unsupported filter")
	ErrBadPredictor         = errors.New("bad predictor value")
	ErrUnsupportedPredictor = errors.New("unsupported predictor filter type")
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrTruncatedStream      = errors.New("truncated stream")
)

// Params holds the decode parameters recognized by the filters.
// The zero Params is not valid; use DefaultParams.
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int
}

// DefaultParams returns the parameter defaults from ISO 32000-1 table 8.
func DefaultParams() Params {
	return Params{Predictor: 1, Columns: 1, Colors: 1, BitsPerComponent: 8}
}

// ParamsFromDict extracts decode parameters from a DecodeParms dictionary
// whose indirect references have already been resolved.
func ParamsFromDict(d types.Dict) Params {
	p := DefaultParams()
	if d == nil {
		return p
	}
	geti := func(key types.Name, dst *int) {
		if v, ok := d[key].(int64); ok {
			*dst = int(v)
		}
	}
	geti("Predictor", &p.Predictor)
	geti("Columns", &p.Columns)
	geti("Colors", &p.Colors)
	geti("BitsPerComponent", &p.BitsPerComponent)
	return p
}

// imageCodec reports whether name identifies a filter whose output is
// consumed by an external image codec rather than this package.
func imageCodec(name string) bool {
	switch name {
	case "DCTDecode", "JPXDecode", "CCITTFaxDecode", "JBIG2Decode":
		return true
	}
	return false
}

// Decode decodes data through the single named filter.
// Filter names are the PDF names without the leading slash;
// the Fl abbreviation for FlateDecode is accepted.
func Decode(name string, p Params, data []byte) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return FlateDecode(p, data)
	case "LZWDecode":
		return LZWDecode(p, data)
	case "RunLengthDecode":
		return RunLengthDecode(data)
	case "ASCIIHexDecode":
		return ASCIIHexDecode(data)
	case "ASCII85Decode":
		return ASCII85Decode(data)
	case "DCTDecode", "JPXDecode", "CCITTFaxDecode", "JBIG2Decode":
		return data, nil
	}
	return nil, errors.Wrap(ErrUnsupportedFilter, name)
}

// Chain applies the named filters left to right, each consuming the
// previous filter's output. params may be shorter than names; missing
// entries take the defaults. When an image codec filter is reached the
// remaining raw bytes are returned unchanged for the codec to consume.
func Chain(names []string, params []Params, data []byte) ([]byte, error) {
	for i, name := range names {
		if imageCodec(name) {
			return data, nil
		}
		p := DefaultParams()
		if i < len(params) {
			p = params[i]
		}
		var err error
		data, err = Decode(name, p, data)
		if err != nil {
			return nil, errors.Wrapf(err, "filter %d (%s)", i, name)
		}
	}
	return data, nil
}
