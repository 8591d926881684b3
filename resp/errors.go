// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package resp

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidArgument reports an invalid configuration or a nil or
	// unknown frame passed to the writer.
	ErrInvalidArgument = errors.New("resp: invalid argument")

	// ErrUnknownPrefix reports a frame starting with an unrecognized
	// type prefix byte.
	ErrUnknownPrefix = errors.New("resp: unknown frame prefix")

	// ErrMissingCRLF reports a line or bulk payload not terminated by CRLF.
	ErrMissingCRLF = errors.New("resp: missing CRLF")

	// ErrInvalidInteger reports an integer frame whose payload is not a
	// signed 64-bit decimal.
	ErrInvalidInteger = errors.New("resp: invalid integer")

	// ErrInvalidLength reports a bulk string or array length that is not a
	// decimal number or is negative (other than the -1 null sentinel).
	ErrInvalidLength = errors.New("resp: invalid length")

	// ErrTooLong reports a frame length exceeding the configured read limit.
	ErrTooLong = errors.New("resp: frame too long")
)

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O.
	// Caller action: stop the current attempt and retry later, or configure
	// RetryDelay to emulate cooperative blocking on top of a non-blocking
	// transport.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will
	// follow”. The operation remains active and additional data is expected
	// from the same ongoing operation.
	ErrMore = iox.ErrMore
)
