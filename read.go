// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdf implements reading of PDF files.
//
// # Overview
//
// PDF is Adobe's Portable Document Format, ubiquitous on the internet.
// A PDF document is a complex data format built on a fairly simple structure.
// This package exposes the simple structure along with some wrappers to
// extract basic information. If more complex information is needed, it is
// possible to extract that information by interpreting the structure exposed
// by this package.
//
// Specifically, a PDF is a data structure built from Values, each of which has
// one of the following Kinds:
//
//	NullKind, for the null object.
//	IntegerKind, for an integer.
//	RealKind, for a floating-point number.
//	BoolKind, for a boolean value.
//	NameKind, for a name constant (as in /Helvetica).
//	StringKind, for a string constant.
//	DictKind, for a dictionary of name-value pairs.
//	ArrayKind, for an array of values.
//	StreamKind, for an opaque data stream and associated header dictionary.
//
// The accessors on Value—Int64, Float64, Bool, Name, and so on—return
// a view of the data as the given type. When there is no appropriate view,
// the accessor returns a zero result. For example, the Name accessor returns
// the empty string if called on a Value v for which v.Kind() != NameKind.
// Returning zero values this way, especially from the Dict and Array accessors,
// which themselves return Values, makes it possible to traverse a PDF quickly
// without writing any error checking. On the other hand, it means that mistakes
// can go unreported.
//
// The basic structure of the PDF file is exposed as the graph of Values.
//
// Most richer data structures in a PDF file are dictionaries with specific
// interpretations of the name-value pairs. The Font and Page wrappers make the
// interpretation of a specific Value as the corresponding type easier. They are
// only helpers, though: they are implemented only in terms of the Value API and
// could be moved outside the package. Equally important, traversal of other PDF
// data structures can be implemented in other packages as needed.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/pagemark/pdf/internal/decrypter"
	"github.com/pagemark/pdf/internal/types"
	"github.com/pagemark/pdf/text"
)

// Errors reported while opening a document.
var (
	ErrMalformedHeader   = errors.New("not a PDF file: invalid header")
	ErrEOFMarkerNotFound = errors.New("not a PDF file: missing %%EOF")
	ErrXrefParse         = errors.New("malformed PDF: bad cross-reference table")
	ErrReferenceNotFound = errors.New("malformed PDF: dangling object reference")
	ErrInvalidPassword   = decrypter.ErrInvalidPassword
)

// tailChunk bounds the scan for the %%EOF marker and the final
// startxref at the end of the file.
const tailChunk = 1024

// A Reader is a single PDF file open for reading.
type Reader struct {
	f          io.ReaderAt
	end        int64
	xref       []types.Xref
	trailer    types.Dict
	trailerptr types.Objptr
	decrypter  *decrypter.Decrypter
	strict     bool
	password   string

	// cache memoizes resolved indirect objects so that repeated
	// traversal returns the same underlying data.
	cache map[types.Objptr]types.Object

	pages     []Value
	pageIndex map[types.Objptr]int
	labels    *pageLabeler
}

// An Option configures a Reader.
type Option func(*Reader)

// WithPassword supplies the password for an encrypted document.
// The empty user password is always tried first.
func WithPassword(pw string) Option {
	return func(r *Reader) { r.password = pw }
}

// WithStrict makes Open reject documents whose header is not at
// offset zero or whose %%EOF marker is followed by non-whitespace.
func WithStrict() Option {
	return func(r *Reader) { r.strict = true }
}

// WithLax restores the default tolerant parsing.
func WithLax() Option {
	return func(r *Reader) { r.strict = false }
}

// Open opens a file for reading.
// Reader.Close should be called when done with the Reader.
func Open(file string, opts ...Option) (*Reader, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := NewReader(f, fi.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader opens a document for reading, using the data in f with the
// given total size.
func NewReader(f io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	r := &Reader{
		f:     f,
		end:   size,
		cache: make(map[types.Objptr]types.Object),
	}
	for _, o := range opts {
		o(r)
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) load() error {
	if err := r.checkHeader(); err != nil {
		return err
	}
	startxref, err := r.findStartxref()
	if err != nil {
		return err
	}

	b := newBuffer(io.NewSectionReader(r.f, startxref, r.end-startxref), startxref)
	xref, trailerptr, trailer, err := readXref(r, b)
	if err != nil {
		return err
	}
	r.xref = xref
	r.trailer = trailer
	r.trailerptr = trailerptr

	if trailer["Encrypt"] == nil {
		return nil
	}
	err = r.initEncrypt("")
	if err == nil {
		return nil
	}
	if r.password == "" || !errors.Is(err, ErrInvalidPassword) {
		return err
	}
	if r.initEncrypt(r.password) == nil {
		return nil
	}
	return err
}

// checkHeader locates the %PDF-m.n version comment. The default mode
// accepts a header anywhere in the first kilobyte; strict mode
// requires it at offset zero.
func (r *Reader) checkHeader() error {
	n := int64(tailChunk)
	if n > r.end {
		n = r.end
	}
	buf := make([]byte, n)
	r.f.ReadAt(buf, 0)

	i := bytes.Index(buf, []byte("%PDF-"))
	if i < 0 || r.strict && i != 0 {
		return ErrMalformedHeader
	}
	rest := buf[i+len("%PDF-"):]
	if len(rest) < 3 || rest[0] != '1' && rest[0] != '2' || rest[1] != '.' || rest[2] < '0' || rest[2] > '9' {
		return errors.Wrapf(ErrMalformedHeader, "version %q", string(rest[:min(3, len(rest))]))
	}
	return nil
}

// findStartxref scans the final kilobyte for the %%EOF marker and the
// startxref line preceding it.
func (r *Reader) findStartxref() (int64, error) {
	n := int64(tailChunk)
	if n > r.end {
		n = r.end
	}
	pos := r.end - n
	buf := make([]byte, n)
	r.f.ReadAt(buf, pos)

	i := bytes.LastIndex(buf, []byte("%%EOF"))
	if i < 0 {
		return 0, ErrEOFMarkerNotFound
	}
	if r.strict && len(bytes.TrimRight(buf[i+len("%%EOF"):], "\r\n\t ")) > 0 {
		return 0, errors.Wrap(ErrEOFMarkerNotFound, "trailing data after %%EOF")
	}

	j := findLastLine(buf[:i], "startxref")
	if j < 0 {
		return 0, errors.Wrap(ErrXrefParse, "missing final startxref")
	}

	off := pos + int64(j)
	b := newBuffer(io.NewSectionReader(r.f, off, r.end-off), off)
	if b.readToken() != keyword("startxref") {
		return 0, errors.Wrap(ErrXrefParse, "missing startxref")
	}
	startxref, ok := b.readToken().(int64)
	if !ok {
		return 0, errors.Wrap(ErrXrefParse, "startxref not followed by integer")
	}
	if startxref < 0 || startxref >= r.end {
		return 0, errors.Wrapf(ErrXrefParse, "startxref offset %d out of range", startxref)
	}
	return startxref, nil
}

// Close closes the underlying reader if it is an io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Trailer returns the file's trailer dictionary.
func (r *Reader) Trailer() Value {
	return Value{r: r, ptr: r.trailerptr, data: r.trailer}
}

// Text returns structured text, one entry per page.
func (r *Reader) Text() ([]text.Text, error) {
	var tt []text.Text
	for i := 1; i <= r.NumPage(); i++ {
		t, err := r.Page(i).Text()
		if err != nil {
			return nil, fmt.Errorf("failed to read page text: %w", err)
		}
		tt = append(tt, t)
	}
	return tt, nil
}

func findLastLine(buf []byte, s string) int {
	bs := []byte(s)
	max := len(buf)
	for {
		i := bytes.LastIndex(buf[:max], bs)
		if i <= 0 || i+len(bs) >= len(buf) {
			return -1
		}
		if (buf[i-1] == '\n' || buf[i-1] == '\r') && (buf[i+len(bs)] == '\n' || buf[i+len(bs)] == '\r') {
			return i
		}
		max = i
	}
}

// Resolve follows v if it is an indirect reference, returning the
// referenced object. References to freed ids resolve to the null
// value; ids absent from both the live and free tables report
// ErrReferenceNotFound. Resolution failures surface as an error
// instead of a panic.
func (r *Reader) Resolve(parent, v Value) (rv Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Wrapf(ErrReferenceNotFound, "%v", e)
		}
	}()
	rv = r.resolve(parent.ptr, v.data)
	if ptr, ok := v.data.(types.Objptr); ok && rv.IsNull() {
		if ptr.ID < uint32(len(r.xref)) && r.xref[ptr.ID].Free {
			// a freed id resolves to null, not an error
			return rv, nil
		}
		return rv, errors.Wrapf(ErrReferenceNotFound, "%d %d R", ptr.ID, ptr.Gen)
	}
	return rv, nil
}

func (r *Reader) resolve(parent types.Objptr, x interface{}) Value {
	if ptr, ok := x.(types.Objptr); ok {
		if obj, ok := r.cache[ptr]; ok {
			return Value{r: r, ptr: ptr, data: obj}
		}
		if ptr.ID >= uint32(len(r.xref)) {
			return Value{}
		}
		xref := r.xref[ptr.ID]
		if xref.Ptr != ptr || xref.Free || !xref.InStream && xref.Offset == 0 {
			return Value{}
		}
		if xref.InStream {
			x = r.resolveInStream(ptr, xref)
		} else {
			b := newBuffer(io.NewSectionReader(r.f, xref.Offset, r.end-xref.Offset), xref.Offset)
			b.decrypter = r.decrypter
			obj := b.readObject()
			def, ok := obj.(types.Objdef)
			if !ok {
				panic(fmt.Errorf("loading %v: found %T instead of types.Objdef", ptr, obj))
			}
			if def.Ptr != ptr {
				panic(fmt.Errorf("loading %v: found %v", ptr, def.Ptr))
			}
			x = def.Obj
		}
		r.cache[ptr] = x
		parent = ptr
	}

	switch x := x.(type) {
	case nil, bool, int64, float64, types.Name, types.Dict, types.Array, types.Stream, string:
		return Value{r: r, ptr: parent, data: x}
	default:
		panic(fmt.Errorf("unexpected value type %T in resolve", x))
	}
}

// resolveInStream loads an object stored inside an object stream,
// following the Extends chain as needed.
func (r *Reader) resolveInStream(ptr types.Objptr, xref types.Xref) types.Object {
	strm := r.resolve(ptr, xref.Stream)
	for {
		if strm.Kind() != StreamKind {
			panic("not a stream")
		}
		if strm.Key("Type").Name() != "ObjStm" {
			panic("not an object stream")
		}
		n := int(strm.Key("N").Int64())
		first := strm.Key("First").Int64()
		if first == 0 {
			panic("missing First")
		}
		b := newBuffer(strm.Reader(), 0)
		b.allowEOF = true
		for i := 0; i < n; i++ {
			id, _ := b.readToken().(int64)
			off, _ := b.readToken().(int64)
			if uint32(id) == ptr.ID {
				b.seekForward(first + off)
				return b.readObject()
			}
		}
		ext := strm.Key("Extends")
		if ext.Kind() != StreamKind {
			panic("cannot find object in stream")
		}
		strm = ext
	}
}

func (r *Reader) initEncrypt(password string) error {
	// See PDF 32000-1:2008, §7.6.
	encrypt, _ := r.resolve(types.Objptr{}, r.trailer["Encrypt"]).data.(types.Dict)
	if encrypt["Filter"] != types.Name("Standard") {
		return errors.Errorf("unsupported PDF: encryption filter %v", objfmt(encrypt["Filter"]))
	}

	ids, ok := r.trailer["ID"].(types.Array)
	if !ok || len(ids) < 1 {
		return errors.New("malformed PDF: missing ID in trailer")
	}
	id, ok := ids[0].(string)
	if !ok {
		return errors.New("malformed PDF: missing ID in trailer")
	}

	dec, err := decrypter.New(password, encrypt, id)
	if err != nil {
		return err
	}
	r.decrypter = dec
	return nil
}
