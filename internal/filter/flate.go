package filter

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// FlateDecode inflates zlib-compressed data and undoes any predictor
// declared in p. Some producers emit raw deflate data without the zlib
// header; when the zlib header check fails the decode is retried as a
// raw deflate stream, mirroring the wide-window fallback other readers
// use for the same malformed files.
func FlateDecode(p Params, data []byte) ([]byte, error) {
	out, err := inflate(data)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}
	return undoPredictor(p, out)
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		out, err := io.ReadAll(zr)
		zr.Close()
		if err == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}

// FlateEncode compresses data at the given zlib level.
// It does not apply a predictor.
func FlateEncode(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
