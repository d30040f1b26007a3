// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdf

import (
	"io"

	"github.com/pagemark/pdf/internal/types"
)

// maxTreeDepth bounds walks over the page tree and the inheritance
// chain, so that cyclic Parent or Kids links cannot hang a traversal.
const maxTreeDepth = 64

// A Page represents a single page in a PDF file.
// The methods interpret a Page dictionary stored in V.
type Page struct {
	V Value
}

// Pages returns the document's pages in order. The flattened list is
// computed once and memoized on the Reader.
func (r *Reader) Pages() []Page {
	if r.pages == nil {
		r.pages = []Value{}
		r.pageIndex = make(map[types.Objptr]int)
		root := r.Trailer().Key("Root").Key("Pages")
		r.collectPages(root, 0)
	}
	pp := make([]Page, len(r.pages))
	for i, v := range r.pages {
		pp[i] = Page{v}
	}
	return pp
}

func (r *Reader) collectPages(v Value, depth int) {
	if depth >= maxTreeDepth {
		return
	}
	switch v.Key("Type").Name() {
	case "Pages":
		kids := v.Key("Kids")
		for i := 0; i < kids.Len(); i++ {
			r.collectPages(kids.Index(i), depth+1)
		}
	case "Page":
		if _, ok := r.pageIndex[v.ptr]; ok {
			return
		}
		r.pageIndex[v.ptr] = len(r.pages)
		r.pages = append(r.pages, v)
	}
}

// Page returns the page for the given page number.
// Page numbers are indexed starting at 1, not 0.
// If the page is not found, Page returns a Page with p.V.IsNull().
func (r *Reader) Page(num int) Page {
	pp := r.Pages()
	if num < 1 || num > len(pp) {
		return Page{}
	}
	return pp[num-1]
}

// NumPage returns the number of pages in the PDF file.
func (r *Reader) NumPage() int {
	return len(r.Pages())
}

// PageIndex returns the zero-based position of p in the document,
// or -1 if p does not belong to this Reader.
func (r *Reader) PageIndex(p Page) int {
	r.Pages()
	if i, ok := r.pageIndex[p.V.ptr]; ok && !p.V.IsNull() {
		return i
	}
	return -1
}

// findInherited looks up key on the page, walking up the Parent chain
// for attributes inherited from ancestor Pages nodes.
func (p Page) findInherited(key string) Value {
	v := p.V
	for depth := 0; depth < maxTreeDepth && !v.IsNull(); depth++ {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
		v = v.Key("Parent")
	}
	return Value{}
}

// Resources returns the resources dictionary associated with the page.
func (p Page) Resources() Value {
	return p.findInherited("Resources")
}

// MediaBox returns the page's media box rectangle.
func (p Page) MediaBox() Value {
	return p.findInherited("MediaBox")
}

// Rotate returns the page's inherited rotation, in degrees clockwise.
func (p Page) Rotate() int {
	return int(p.findInherited("Rotate").Int64())
}

// Fonts returns a list of the fonts associated with the page.
func (p Page) Fonts() []string {
	return p.Resources().Key("Font").Keys()
}

// Font returns the font with the given name associated with the page.
func (p Page) Font(name string) *Font {
	return NewFont(p.Resources().Key("Font").Key(name))
}

// forEachStream interprets each content stream of the page as a
// PostScript stream, running do against every operation.
func forEachStream(p Page, do func(stk *Stack, op string)) {
	v := p.V.Key("Contents")
	if v.Kind() == StreamKind {
		Interpret(v.Reader(), do)
		return
	}

	var rr []io.Reader
	for i := 0; i < v.Len(); i++ {
		v := v.Index(i)
		if v.Kind() == StreamKind {
			rr = append(rr, v.Reader())
		}
	}

	Interpret(io.MultiReader(rr...), do)
}
