// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Parsing of classic cross-reference tables and cross-reference streams.

package pdf

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/pagemark/pdf/internal/types"
)

func readXref(r *Reader, b *buffer) ([]types.Xref, types.Objptr, types.Dict, error) {
	tok := b.readToken()
	if tok == keyword("xref") {
		return readXrefTable(r, b)
	}
	if _, ok := tok.(int64); ok {
		b.unreadToken(tok)
		return readXrefStream(r, b)
	}
	return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "cross-reference table not found: %v", tok)
}

// readXrefStream reads a cross-reference stream and the chain of
// streams reachable through Prev. Earlier sections never override
// entries from later ones.
func readXrefStream(r *Reader, b *buffer) ([]types.Xref, types.Objptr, types.Dict, error) {
	obj1 := b.readObject()
	obj, ok := obj1.(types.Objdef)
	if !ok {
		return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "cross-reference stream not found: %v", objfmt(obj1))
	}
	strmptr := obj.Ptr
	strm, ok := obj.Obj.(types.Stream)
	if !ok {
		return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "cross-reference stream not found: %v", objfmt(obj))
	}
	if strm.Hdr["Type"] != types.Name("XRef") {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref stream does not have type XRef")
	}
	size, ok := strm.Hdr["Size"].(int64)
	if !ok {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref stream missing Size")
	}
	table := make([]types.Xref, size)

	table, err := readXrefStreamData(r, strm, table, size)
	if err != nil {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, err.Error())
	}

	for prevoff := strm.Hdr["Prev"]; prevoff != nil; {
		off, ok := prevoff.(int64)
		if !ok {
			return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "xref Prev is not integer: %v", prevoff)
		}
		b := newBuffer(io.NewSectionReader(r.f, off, r.end-off), off)
		obj1 := b.readObject()
		obj, ok := obj1.(types.Objdef)
		if !ok {
			return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "xref prev stream not found: %v", objfmt(obj1))
		}
		prevstrm, ok := obj.Obj.(types.Stream)
		if !ok {
			return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "xref prev stream not found: %v", objfmt(obj))
		}
		prevoff = prevstrm.Hdr["Prev"]
		prev := Value{r: r, data: prevstrm}
		if prev.Key("Type").Name() != "XRef" {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref prev stream does not have type XRef")
		}
		psize := prev.Key("Size").Int64()
		if psize > size {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref prev stream larger than last stream")
		}
		if table, err = readXrefStreamData(r, prevstrm, table, psize); err != nil {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, err.Error())
		}
	}

	return table, strmptr, strm.Hdr, nil
}

func readXrefStreamData(r *Reader, strm types.Stream, table []types.Xref, size int64) ([]types.Xref, error) {
	index, _ := strm.Hdr["Index"].(types.Array)
	if index == nil {
		index = types.Array{int64(0), size}
	}
	if len(index)%2 != 0 {
		return nil, errors.Errorf("invalid Index array %v", objfmt(index))
	}
	ww, ok := strm.Hdr["W"].(types.Array)
	if !ok {
		return nil, errors.New("xref stream missing W array")
	}

	var w []int
	for _, x := range ww {
		i, ok := x.(int64)
		if !ok || int64(int(i)) != i {
			return nil, errors.Errorf("invalid W array %v", objfmt(ww))
		}
		w = append(w, int(i))
	}
	if len(w) < 3 {
		return nil, errors.Errorf("invalid W array %v", objfmt(ww))
	}

	v := Value{r: r, data: strm}
	wtotal := 0
	for _, wid := range w {
		wtotal += wid
	}
	buf := make([]byte, wtotal)
	data := v.Reader()
	for len(index) > 0 {
		start, ok1 := index[0].(int64)
		n, ok2 := index[1].(int64)
		if !ok1 || !ok2 {
			return nil, errors.Errorf("malformed Index pair %v %v %T %T", objfmt(index[0]), objfmt(index[1]), index[0], index[1])
		}
		index = index[2:]
		for i := 0; i < int(n); i++ {
			if _, err := io.ReadFull(data, buf); err != nil {
				return nil, errors.Wrap(err, "error reading xref stream")
			}
			v1 := decodeInt(buf[0:w[0]])
			if w[0] == 0 {
				// a missing type field defaults to an in-use entry
				v1 = 1
			}
			v2 := decodeInt(buf[w[0] : w[0]+w[1]])
			v3 := decodeInt(buf[w[0]+w[1] : w[0]+w[1]+w[2]])
			x := int(start) + i
			for cap(table) <= x {
				table = append(table[:cap(table)], types.Xref{})
			}
			if len(table) <= x {
				table = table[:x+1]
			}
			if table[x].Ptr != (types.Objptr{}) || table[x].Free {
				continue
			}
			switch v1 {
			case 0:
				table[x] = types.Xref{Free: true, Ptr: types.Objptr{Gen: uint16(v3)}}
			case 1:
				table[x] = types.Xref{Ptr: types.Objptr{ID: uint32(x), Gen: uint16(v3)}, Offset: int64(v2)}
			case 2:
				table[x] = types.Xref{Ptr: types.Objptr{ID: uint32(x)}, InStream: true, Stream: types.Objptr{ID: uint32(v2)}, Offset: int64(v3)}
			default:
				slog.Debug("invalid xref stream type", slog.Int("v1", v1), slog.Any("buf", buf))
			}
		}
	}
	return table, nil
}

func decodeInt(b []byte) int {
	x := 0
	for _, c := range b {
		x = x<<8 | int(c)
	}
	return x
}

// readXrefTable reads a classic cross-reference table and the chain of
// tables reachable through the trailer's Prev entries.
func readXrefTable(r *Reader, b *buffer) ([]types.Xref, types.Objptr, types.Dict, error) {
	var table []types.Xref

	table, err := readXrefTableData(b, table)
	if err != nil {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, err.Error())
	}

	trailer, ok := b.readObject().(types.Dict)
	if !ok {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref table not followed by trailer dictionary")
	}

	for prevoff := trailer["Prev"]; prevoff != nil; {
		off, ok := prevoff.(int64)
		if !ok {
			return nil, types.Objptr{}, nil, errors.Wrapf(ErrXrefParse, "xref Prev is not integer: %v", prevoff)
		}
		b := newBuffer(io.NewSectionReader(r.f, off, r.end-off), off)
		tok := b.readToken()
		if tok != keyword("xref") {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref Prev does not point to xref")
		}
		table, err = readXrefTableData(b, table)
		if err != nil {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, err.Error())
		}

		prevTrailer, ok := b.readObject().(types.Dict)
		if !ok {
			return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "xref Prev table not followed by trailer dictionary")
		}
		prevoff = prevTrailer["Prev"]
	}

	size, ok := trailer[types.Name("Size")].(int64)
	if !ok {
		return nil, types.Objptr{}, nil, errors.Wrap(ErrXrefParse, "trailer missing /Size entry")
	}

	if size < int64(len(table)) {
		table = table[:size]
	}

	return table, types.Objptr{}, trailer, nil
}

func readXrefTableData(b *buffer, table []types.Xref) ([]types.Xref, error) {
	for {
		tok := b.readToken()
		if tok == keyword("trailer") {
			break
		}
		start, ok1 := tok.(int64)
		n, ok2 := b.readToken().(int64)
		if !ok1 || !ok2 {
			return nil, errors.New("malformed xref table")
		}
		for i := 0; i < int(n); i++ {
			off, ok1 := b.readToken().(int64)
			gen, ok2 := b.readToken().(int64)
			alloc, ok3 := b.readToken().(keyword)
			if !ok1 || !ok2 || !ok3 || alloc != keyword("f") && alloc != keyword("n") {
				return nil, errors.New("malformed xref table")
			}
			x := int(start) + i
			for cap(table) <= x {
				table = append(table[:cap(table)], types.Xref{})
			}
			if len(table) <= x {
				table = table[:x+1]
			}
			if table[x].Offset != 0 || table[x].Free {
				continue
			}
			if alloc == "n" {
				table[x] = types.Xref{Ptr: types.Objptr{ID: uint32(x), Gen: uint16(gen)}, Offset: int64(off)}
			} else {
				table[x] = types.Xref{Free: true, Ptr: types.Objptr{Gen: uint16(gen)}}
			}
		}
	}
	return table, nil
}
