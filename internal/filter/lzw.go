package filter

import "github.com/pkg/errors"

// LZW control codes and table layout per the TIFF 6.0 convention
// adopted by PDF: the table is preloaded with the 256 single-byte
// strings plus a clear code (256) and a stop code (257); new entries
// start at 258 and the code width grows from 9 bits as the table fills.
const (
	lzwClear = 256
	lzwStop  = 257
)

// LZWDecode decodes a variable-width LZW stream. A stream that runs
// out of input before the stop code is reported as truncated.
//
// The PDF EarlyChange parameter is not consulted: the code width grows
// when the table reaches 512/1024/2048 entries, matching the behavior
// of the producers this was validated against.
func LZWDecode(p Params, data []byte) ([]byte, error) {
	d := lzwDecoder{data: data}
	out, err := d.decode()
	if err != nil {
		return nil, err
	}
	return undoPredictor(p, out)
}

type lzwDecoder struct {
	data    []byte
	bytepos int
	bitpos  uint

	table     [4096][]byte
	tableSize int
	codeWidth uint
}

func (d *lzwDecoder) reset() {
	for i := 0; i < 256; i++ {
		d.table[i] = []byte{byte(i)}
	}
	d.tableSize = 258
	d.codeWidth = 9
}

func (d *lzwDecoder) decode() ([]byte, error) {
	if len(d.data) == 0 {
		return nil, nil
	}
	d.reset()

	var out []byte
	var prev []byte
	for {
		code, err := d.next()
		if err != nil {
			return nil, err
		}
		switch {
		case code == lzwStop:
			return out, nil
		case code == lzwClear:
			d.reset()
			prev = nil
		case prev == nil:
			// First code after a clear must be a literal.
			if code >= d.tableSize {
				return nil, errors.Wrapf(ErrMalformedEncoding, "LZW code %d before any literal", code)
			}
			out = append(out, d.table[code]...)
			prev = d.table[code]
		default:
			var s []byte
			if code < d.tableSize && d.table[code] != nil {
				s = d.table[code]
			} else {
				// The KwKwK case: the code being defined right now.
				s = append(append([]byte(nil), prev...), prev[0])
			}
			out = append(out, s...)
			d.add(append(append([]byte(nil), prev...), s[0]))
			prev = s
		}
	}
}

func (d *lzwDecoder) add(entry []byte) {
	if d.tableSize >= len(d.table) {
		return
	}
	d.table[d.tableSize] = entry
	d.tableSize++
	switch d.tableSize {
	case 512:
		d.codeWidth = 10
	case 1024:
		d.codeWidth = 11
	case 2048:
		d.codeWidth = 12
	}
}

// next pulls the next big-endian code of the current width.
func (d *lzwDecoder) next() (int, error) {
	want := d.codeWidth
	value := 0
	for want > 0 {
		if d.bytepos >= len(d.data) {
			return 0, errors.Wrap(ErrTruncatedStream, "LZW stream missing stop code")
		}
		avail := 8 - d.bitpos
		take := avail
		if take > want {
			take = want
		}
		b := d.data[d.bytepos]
		value |= int(b>>(avail-take)&(0xff>>(8-take))) << (want - take)
		want -= take
		d.bitpos += take
		if d.bitpos >= 8 {
			d.bitpos = 0
			d.bytepos++
		}
	}
	return value, nil
}
