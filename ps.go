// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdf

import (
	"io"

	"github.com/pagemark/pdf/internal/types"
)

func newDict() Value {
	return Value{data: make(types.Dict)}
}

// A Stack represents a stack of values.
type Stack struct {
	stack []Value
}

func (stk *Stack) Len() int {
	return len(stk.stack)
}

func (stk *Stack) Push(v Value) {
	stk.stack = append(stk.stack, v)
}

func (stk *Stack) Pop() Value {
	n := len(stk.stack)
	if n == 0 {
		return Value{}
	}
	v := stk.stack[n-1]
	stk.stack[n-1] = Value{}
	stk.stack = stk.stack[:n-1]
	return v
}

// Interpret interprets the content in a stream as a basic PostScript
// program, pushing values onto a stack and then calling the do function
// to execute operators. The do function may push or pop values from the
// stack as needed to implement op.
//
// Interpret handles the operators "dict", "currentdict", "begin", "end",
// "def", and "pop" itself. Inline images (BI ... ID ... EI) are consumed
// and skipped; a missing EI terminator is an error.
//
// Interpret is not a full-blown PostScript interpreter. Its job is to
// process PDF content streams, which used to be written in a limited
// version of PostScript.
func Interpret(rd io.Reader, do func(stk *Stack, op string)) {
	b := newBuffer(rd, 0)
	b.allowEOF = true
	b.allowObjptr = false
	b.allowStream = false
	var stk Stack
	var dicts []types.Dict
Reading:
	for {
		tok := b.readToken()
		if tok == io.EOF {
			break
		}
		if kw, ok := tok.(keyword); ok {
			switch kw {
			case "null", "[", "]", "<<", ">>":
				break
			default:
				for i := len(dicts) - 1; i >= 0; i-- {
					if v, ok := dicts[i][types.Name(kw)]; ok {
						stk.Push(Value{data: v})
						continue Reading
					}
				}
				do(&stk, string(kw))
				continue
			case "BI":
				b.skipInlineImage()
				continue
			case "dict":
				stk.Pop()
				stk.Push(Value{data: make(types.Dict)})
				continue
			case "currentdict":
				if len(dicts) == 0 {
					panic("no current dictionary")
				}
				stk.Push(Value{data: dicts[len(dicts)-1]})
				continue
			case "begin":
				d := stk.Pop()
				if d.Kind() != DictKind {
					panic("cannot begin non-dict")
				}
				dicts = append(dicts, d.data.(types.Dict))
				continue
			case "end":
				if len(dicts) <= 0 {
					panic("mismatched begin/end")
				}
				dicts = dicts[:len(dicts)-1]
				continue
			case "def":
				if len(dicts) <= 0 {
					panic("def without open dict")
				}
				val := stk.Pop()
				key, ok := stk.Pop().data.(types.Name)
				if !ok {
					panic("def of non-name")
				}
				dicts[len(dicts)-1][key] = val.data
				continue
			case "pop":
				stk.Pop()
				continue
			}
		}
		b.unreadToken(tok)
		obj := b.readObject()
		stk.Push(Value{data: obj})
	}
}

// skipInlineImage consumes an inline image from just after the BI
// keyword through its EI terminator. The image parameters are read as
// tokens; the binary payload after ID is scanned for a whitespace-EI
// sequence at a token boundary.
func (b *buffer) skipInlineImage() {
	for {
		tok := b.readToken()
		if tok == io.EOF {
			b.errorf("truncated inline image: missing ID")
		}
		if tok == keyword("ID") {
			break
		}
		b.unreadToken(tok)
		b.readObject()
	}
	// one whitespace byte separates ID from the data
	b.readByte()

	var prev byte = '\n'
	for {
		if b.eof {
			b.errorf("truncated inline image: missing EI")
		}
		c := b.readByte()
		if c == 'E' && isSpace(prev) {
			c2 := b.readByte()
			if c2 == 'I' {
				c3 := b.readByte()
				if b.eof || isSpace(c3) || isDelim(c3) {
					b.unreadByte()
					return
				}
				prev = c3
				continue
			}
			prev = c2
			continue
		}
		prev = c
	}
}
