// Decoding of stream data through the filter chain.

package pdf

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/pagemark/pdf/internal/filter"
	"github.com/pagemark/pdf/internal/types"
)

type errorReadCloser struct {
	err error
}

func (e *errorReadCloser) Read([]byte) (int, error) {
	return 0, e.err
}

func (e *errorReadCloser) Close() error {
	return e.err
}

// Reader returns the decoded data contained in the stream v.
// If v is not a stream, or its filter chain fails to decode, the
// returned ReadCloser responds to all reads with that error.
func (v Value) Reader() io.ReadCloser {
	data, err := v.DecodedBytes()
	if err != nil {
		return &errorReadCloser{err}
	}
	return io.NopCloser(bytes.NewReader(data))
}

// RawBytes returns the stream data with no filters applied.
// String decryption aside, this is the data as stored in the file.
func (v Value) RawBytes() ([]byte, error) {
	x, ok := v.data.(types.Stream)
	if !ok {
		return nil, errors.New("stream not present")
	}
	rd, err := v.r.streamReader(x, v.Key("Length").Int64())
	if err != nil {
		return nil, errors.Wrap(err, "bad decryption")
	}
	return io.ReadAll(rd)
}

// DecodedBytes returns the stream data after applying, in order, every
// filter named in the stream's Filter entry. Image codec filters
// (DCTDecode, JPXDecode, CCITTFaxDecode, JBIG2Decode) terminate the
// chain and return their input unchanged.
func (v Value) DecodedBytes() ([]byte, error) {
	data, err := v.RawBytes()
	if err != nil {
		return nil, err
	}

	names, params, err := v.filterChain()
	if err != nil {
		return nil, err
	}
	return filter.Chain(names, params, data)
}

// filterChain normalizes the stream's Filter and DecodeParms entries,
// which may each be a single item or an array.
func (v Value) filterChain() ([]string, []filter.Params, error) {
	f := v.Key("Filter")
	parms := v.Key("DecodeParms")
	if parms.IsNull() {
		parms = v.Key("DP")
	}

	var names []string
	var params []filter.Params
	switch f.Kind() {
	case NullKind:
		// unfiltered
	case NameKind:
		names = append(names, f.Name())
		params = append(params, paramsFromValue(parms))
	case ArrayKind:
		for i := 0; i < f.Len(); i++ {
			names = append(names, f.Index(i).Name())
			params = append(params, paramsFromValue(parms.Index(i)))
		}
	default:
		return nil, nil, errors.Errorf("unsupported Filter entry %v", f)
	}
	return names, params, nil
}

func paramsFromValue(v Value) filter.Params {
	d, ok := v.data.(types.Dict)
	if !ok {
		return filter.DefaultParams()
	}
	// resolve indirect entries before handing off
	rd := make(types.Dict, len(d))
	for k := range d {
		rd[k] = v.Key(string(k)).data
	}
	return filter.ParamsFromDict(rd)
}

func (r *Reader) streamReader(s types.Stream, length int64) (io.Reader, error) {
	rd := io.NewSectionReader(r.f, s.Offset, length)
	return r.decrypter.Decrypt(s.Ptr, rd)
}
