// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

// A Stack is the operand stack used while interpreting a content or CMap
// stream: a PostScript-like sequence of operators and operands, with
// operands pushed as they're read and popped when an operator fires.
type Stack struct {
	v []Value
}

// Push adds val to the top of the stack.
func (s *Stack) Push(val Value) {
	s.v = append(s.v, val)
}

// Pop removes and returns the top of the stack, or a zero Value if empty.
func (s *Stack) Pop() Value {
	if len(s.v) == 0 {
		return Value{}
	}
	val := s.v[len(s.v)-1]
	s.v = s.v[:len(s.v)-1]
	return val
}

// Len reports the number of operands currently on the stack.
func (s *Stack) Len() int {
	return len(s.v)
}

// newDict returns a Value wrapping a freshly allocated, empty dictionary.
// It has no backing Reader or object pointer: it exists only to seed the
// operand stack for operators like findresource/begincmap that synthesize
// a dictionary rather than reading one from the stream.
func newDict() Value {
	return Value{data: dict{}}
}

// Interpret tokenizes strm as a PostScript-like operator stream (the
// grammar shared by content streams and ToUnicode CMaps) and invokes fn
// once per operator, with operands already pushed onto stk by the time
// fn is called. Operands are themselves Values so that fn can reuse the
// same Key/Int64/RawString/Name accessors used elsewhere against parsed
// PDF objects.
func Interpret(strm Value, fn func(stk *Stack, op string)) {
	rd := strm.Reader()
	defer rd.Close()

	b := newBuffer(rd, 0)
	b.allowEOF = true
	b.allowObjptr = false
	b.allowStream = false

	var stk Stack
	for {
		tok := b.readToken()
		if b.eof {
			break
		}
		switch v := tok.(type) {
		case keyword:
			switch v {
			case "<<":
				stk.Push(Value{data: b.parseDict()})
			case "[":
				stk.Push(Value{data: b.parseArray()})
			default:
				fn(&stk, string(v))
			}
		default:
			stk.Push(Value{data: v})
		}
	}
}
