package filter

import "github.com/pkg/errors"

// rlEOD is the run-length end-of-data sentinel.
const rlEOD = 128

// RunLengthDecode decodes a byte-oriented run-length stream: a length
// byte 0-127 copies the following length+1 literal bytes, a length
// byte 129-255 repeats the next byte 257-length times, and 128 ends
// the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(data) {
		length := int(data[i])
		switch {
		case length == rlEOD:
			return out, nil
		case length < rlEOD:
			end := i + 1 + length + 1
			if end > len(data) {
				return nil, errors.Wrap(ErrTruncatedStream, "run length literal run cut short")
			}
			out = append(out, data[i+1:end]...)
			i = end
		default:
			if i+1 >= len(data) {
				return nil, errors.Wrap(ErrTruncatedStream, "run length repeat missing byte")
			}
			for n := 0; n < 257-length; n++ {
				out = append(out, data[i+1])
			}
			i += 2
		}
	}
	return out, nil
}

// RunLengthEncode produces a valid (if unoptimized) run-length stream:
// runs of three or more equal bytes become repeat runs, everything
// else is emitted literally.
func RunLengthEncode(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		// Measure the run of equal bytes at i.
		j := i + 1
		for j < len(data) && data[j] == data[i] && j-i < 128 {
			j++
		}
		if j-i >= 3 {
			out = append(out, byte(257-(j-i)), data[i])
			i = j
			continue
		}
		// Literal run up to the next long repeat or 128 bytes.
		k := i
		for k < len(data) && k-i < 128 {
			if k+2 < len(data) && data[k] == data[k+1] && data[k] == data[k+2] {
				break
			}
			k++
		}
		out = append(out, byte(k-i-1))
		out = append(out, data[i:k]...)
		i = k
	}
	return append(out, rlEOD)
}
