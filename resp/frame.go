// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package resp implements a streaming codec for the RESP (REdis
// Serialization Protocol) v2 wire format.
//
// Semantics and design:
//   - Exact framing: Parser consumes exactly the bytes of one frame per call
//     and never reads past the end of the current frame; the next byte left
//     in the reader is the first byte of the next frame.
//   - Byte-exact output: Writer emits the canonical on-wire form of each
//     frame. Null is always written in its bulk form "$-1\r\n"; the parser
//     accepts both the bulk and the array null forms.
//   - Non-blocking aware: iox.ErrWouldBlock and iox.ErrMore are surfaced as
//     control-flow signals (re-exposed as resp.ErrWouldBlock / resp.ErrMore).
//     The writer's retry policy is configurable via WithRetryDelay.
//
// Wire forms: "+text\r\n" simple string, "-text\r\n" error, ":n\r\n" signed
// 64-bit integer, "$len\r\n<len bytes>\r\n" bulk string, "*len\r\n" followed
// by len child frames for arrays. Lengths are ASCII decimal; a length of -1
// denotes the null sentinel.
package resp

import "bytes"

// Frame is one unit of the wire protocol: exactly one of SimpleString,
// Error, Integer, BulkString, Array or Null.
type Frame interface {
	frame()
}

// SimpleString is a short textual status. It must not contain CR or LF.
type SimpleString string

// Error is a short textual error reported to the peer. It must not contain
// CR or LF.
type Error string

// Integer is a signed 64-bit integer.
type Integer int64

// BulkString is an arbitrary binary payload with an explicit length.
type BulkString []byte

// Array is an ordered sequence of frames. It may be empty and may nest.
type Array []Frame

// Null is the single sentinel for an absent bulk string or absent array.
type Null struct{}

func (SimpleString) frame() {}
func (Error) frame()        {}
func (Integer) frame()      {}
func (BulkString) frame()   {}
func (Array) frame()        {}
func (Null) frame()         {}

// Equal reports whether two frames are structurally equal. BulkStrings
// compare byte-wise, arrays element-wise in order.
func Equal(a, b Frame) bool {
	switch a := a.(type) {
	case SimpleString:
		b, ok := b.(SimpleString)
		return ok && a == b
	case Error:
		b, ok := b.(Error)
		return ok && a == b
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case BulkString:
		b, ok := b.(BulkString)
		return ok && bytes.Equal(a, b)
	case Array:
		b, ok := b.(Array)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return false
	}
}
