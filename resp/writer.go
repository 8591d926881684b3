// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package resp

import (
	"io"
	"runtime"
	"strconv"
	"time"
)

// Writer serializes frames onto a byte stream.
//
// WriteFrame encodes the whole frame into an internal reusable scratch
// buffer and then writes it out, so a frame is either fully accepted by the
// underlying writer or reported as failed; no partial frame is left behind
// on success. Zero heap allocations in the steady state once the scratch
// buffer has grown to the working set.
type Writer struct {
	w          io.Writer
	retryDelay time.Duration

	// reusable scratch buffer for the encode-then-write fast path
	scratch []byte
}

// NewWriter returns a Writer serializing frames to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Writer{w: w, retryDelay: o.RetryDelay}
}

// WriteFrame serializes f and writes all of its bytes to the underlying
// writer. It returns nil only after the whole frame has been accepted.
func (w *Writer) WriteFrame(f Frame) error {
	if w == nil || w.w == nil {
		return ErrInvalidArgument
	}
	buf, err := AppendFrame(w.scratch[:0], f)
	if err != nil {
		return err
	}
	w.scratch = buf[:0]
	return w.writeAll(buf)
}

// AppendFrame appends the canonical wire encoding of f to dst and returns
// the extended slice. Null is always encoded in its bulk form "$-1\r\n".
func AppendFrame(dst []byte, f Frame) ([]byte, error) {
	switch f := f.(type) {
	case SimpleString:
		dst = append(dst, '+')
		dst = append(dst, f...)
		return append(dst, '\r', '\n'), nil
	case Error:
		dst = append(dst, '-')
		dst = append(dst, f...)
		return append(dst, '\r', '\n'), nil
	case Integer:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(f), 10)
		return append(dst, '\r', '\n'), nil
	case BulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(f)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, f...)
		return append(dst, '\r', '\n'), nil
	case Array:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(f)), 10)
		dst = append(dst, '\r', '\n')
		var err error
		for _, child := range f {
			dst, err = AppendFrame(dst, child)
			if err != nil {
				return dst, err
			}
		}
		return dst, nil
	case Null:
		return append(dst, '$', '-', '1', '\r', '\n'), nil
	default:
		return dst, ErrInvalidArgument
	}
}

func (w *Writer) writeAll(p []byte) error {
	for len(p) > 0 {
		n, err := w.w.Write(p)
		// Guard against broken Writers that violate the io.Writer contract by
		// returning (0, nil) on a non-empty buffer.
		if n == 0 && err == nil {
			return io.ErrShortWrite
		}
		p = p[n:]
		if err != nil {
			if err == ErrWouldBlock && w.waitOnceOnWouldBlock() {
				continue
			}
			return err
		}
	}
	return nil
}

func (w *Writer) waitOnceOnWouldBlock() bool {
	// returns whether the caller should retry
	if w.retryDelay < 0 {
		return false
	}
	if w.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(w.retryDelay)
	return true
}
