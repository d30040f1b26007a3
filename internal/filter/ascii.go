package filter

import (
	"bytes"
	"encoding/ascii85"
	"encoding/hex"

	"github.com/pkg/errors"
)

var asciiWhitespace = [256]bool{
	0x00: true, '\t': true, '\n': true, '\f': true, '\r': true, ' ': true,
}

func stripWhitespace(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		if !asciiWhitespace[c] {
			out = append(out, c)
		}
	}
	return out
}

// ASCIIHexDecode decodes hexadecimal-encoded data. Whitespace is
// ignored, the > end-of-data marker stops the decode, and an odd
// number of digits is completed with a trailing zero nibble.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	data = stripWhitespace(data)
	if i := bytes.IndexByte(data, '>'); i >= 0 {
		data = data[:i]
	}
	if len(data)%2 == 1 {
		data = append(data, '0')
	}
	out := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(out, data); err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}
	return out, nil
}

// ASCIIHexEncode encodes data in hexadecimal with the > marker.
func ASCIIHexEncode(data []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(data)), hex.EncodedLen(len(data))+1)
	hex.Encode(out, data)
	return append(out, '>')
}

// ASCII85Decode decodes base-85 data, tolerating whitespace and the
// optional <~ ~> frame some producers emit.
func ASCII85Decode(data []byte) ([]byte, error) {
	data = stripWhitespace(data)
	data = bytes.TrimPrefix(data, []byte("<~"))
	data = bytes.TrimSuffix(data, []byte("~>"))
	out := make([]byte, ascii85.MaxEncodedLen(len(data)))
	n, _, err := ascii85.Decode(out, data, true)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}
	return out[:n], nil
}

// ASCII85Encode encodes data in base-85 with the ~> end marker.
func ASCII85Encode(data []byte) []byte {
	out := make([]byte, ascii85.MaxEncodedLen(len(data)))
	n := ascii85.Encode(out, data)
	return append(out[:n], '~', '>')
}
