package types

// A Name is a PDF name, without the leading slash.
type Name string

// An Object is a PDF syntax object, one of the following Go types:
//
//	bool, a PDF boolean
//	int64, a PDF integer
//	float64, a PDF real
//	string, a PDF string literal
//	Name, a PDF name without the leading slash
//	Dict, a PDF dictionary
//	Array, a PDF array
//	Stream, a PDF stream
//	Objptr, a PDF object reference
//	Objdef, a PDF object definition
//
// An Object may also be nil, to represent the PDF null.
type Object any

type Dict map[Name]Object

type Array []Object

// A Stream records a stream's header dictionary and the file offset
// of its raw payload. The payload itself is read on demand.
type Stream struct {
	Hdr    Dict
	Ptr    Objptr
	Offset int64
}

// An Objptr is an indirect reference: an (object id, generation) pair
// resolved through the document's cross-reference table.
type Objptr struct {
	ID  uint32
	Gen uint16
}

type Objdef struct {
	Ptr Objptr
	Obj Object
}

// An Xref is a single cross-reference table entry.
// Free entries keep their slot so deleted ids stay distinguishable
// from ids that were never allocated.
type Xref struct {
	Ptr      Objptr
	InStream bool
	Stream   Objptr
	Offset   int64
	Free     bool
}
