// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"time"

	"code.hybscloud.com/respd/resp"
)

// DefaultAddr is the address a Server binds when none is configured.
const DefaultAddr = "127.0.0.1:6380"

// Options configures a Server.
type Options struct {
	// Addr is the TCP listen address.
	Addr string

	// ReadLimit caps the declared length of a single inbound bulk string or
	// array. Zero disables the cap; unset it defaults to
	// resp.DefaultReadLimit. See resp.WithReadLimit.
	ReadLimit int

	// RetryDelay is the reply writer's wait policy on iox.ErrWouldBlock.
	// See resp.WithRetryDelay. Irrelevant on ordinary blocking sockets.
	RetryDelay time.Duration

	// Store lets several servers (or an embedder) share one store.
	// Nil means the server creates its own empty store.
	Store *Store
}

var defaultServerOptions = Options{
	Addr:       DefaultAddr,
	ReadLimit:  resp.DefaultReadLimit,
	RetryDelay: -1,
}

type Option func(*Options)

// WithAddr sets the TCP listen address.
func WithAddr(addr string) Option {
	return func(o *Options) { o.Addr = addr }
}

// WithReadLimit caps the declared length of inbound bulk strings and arrays.
func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

// WithRetryDelay sets the reply writer's wait policy on iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithStore makes the server serve commands against st instead of a fresh
// empty store.
func WithStore(st *Store) Option {
	return func(o *Options) { o.Store = st }
}
