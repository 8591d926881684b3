// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package resp

import "time"

// DefaultReadLimit is the ReadLimit in effect when no option overrides it.
// 512MB is the conventional ceiling for a single RESP bulk string.
const DefaultReadLimit = 512 << 20

// Options configures codec behavior.
type Options struct {
	// ReadLimit caps the declared length of a single bulk string or array
	// (bytes and elements respectively). Zero disables the cap; unset it
	// defaults to DefaultReadLimit.
	ReadLimit int

	// RetryDelay controls how the writer handles iox.ErrWouldBlock from the
	// underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	ReadLimit:  DefaultReadLimit,
	RetryDelay: -1, // default: nonblock
}

type Option func(*Options)

func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

// WithRetryDelay sets the retry/wait policy used when the underlying
// transport returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
