// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package respd implements a single-node, in-memory key-value server
// speaking the RESP v2 wire format over TCP.
//
// Semantics and design:
//   - One goroutine per accepted connection; each connection owns its
//     socket, a buffered read half and a frame writer, and shares the store.
//   - Replies are strictly in request order within a connection: the reply
//     to request n is written before request n+1 is parsed.
//   - The store is the only shared mutable state; every store operation is
//     one short critical section and performs no I/O.
//   - Protocol errors (malformed framing in, I/O failure out) close only
//     the offending connection; command errors are replied as Error frames
//     and leave the connection open.
package respd

import (
	"errors"
	"io"
	"net"
	"sync"

	"code.hybscloud.com/respd/resp"
)

// Server accepts RESP connections and serves commands against its store.
type Server struct {
	opts  Options
	store *Store

	mu     sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool

	wg sync.WaitGroup
}

// New returns a Server configured by opts. The zero option set binds
// DefaultAddr with a fresh empty store.
func New(opts ...Option) *Server {
	o := defaultServerOptions
	for _, fn := range opts {
		fn(&o)
	}
	st := o.Store
	if st == nil {
		st = NewStore()
	}
	return &Server{
		opts:  o,
		store: st,
		conns: make(map[net.Conn]struct{}),
	}
}

// Store returns the server's shared store.
func (s *Server) Store() *Store { return s.store }

// Addr returns the listener address, or nil before ListenAndServe/Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe binds the configured TCP address and serves until Close.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Close is called or the listener
// fails. Accepting is never blocked by in-flight work on any connection.
// Serve returns ErrServerClosed after Close.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()

	log.Infof("listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			conns := make([]net.Conn, 0, len(s.conns))
			for c := range s.conns {
				conns = append(conns, c)
			}
			s.mu.Unlock()
			if closed {
				// Close already closed the tracked connections.
				s.wg.Wait()
				return ErrServerClosed
			}
			// A failing listener ends the server; live handlers must not
			// outlive it.
			for _, c := range conns {
				c.Close()
			}
			s.wg.Wait()
			return err
		}
		if !s.trackConn(conn) {
			conn.Close()
			s.wg.Wait()
			return ErrServerClosed
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting, closes every live connection and waits for their
// handlers to finish. It is safe to call multiple times.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.ln
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, c := range conns {
		c.Close()
	}
	s.wg.Wait()
	return err
}

func (s *Server) trackConn(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) forgetConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleConn runs the per-connection read/dispatch/write loop. It owns the
// socket and returns only when the peer disconnects, framing breaks, or a
// reply cannot be written.
func (s *Server) handleConn(conn net.Conn) {
	defer func() {
		conn.Close()
		s.forgetConn(conn)
		openConnections.Dec()
	}()
	connectionsTotal.Inc()
	openConnections.Inc()

	peer := conn.RemoteAddr()
	log.Infof("client connected: %s", peer)

	parser := resp.NewParser(conn, resp.WithReadLimit(s.opts.ReadLimit))
	writer := resp.NewWriter(conn, resp.WithRetryDelay(s.opts.RetryDelay))

	for {
		req, err := parser.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Infof("client disconnected: %s", peer)
			} else {
				framingErrorsTotal.Inc()
				log.Warningf("framing error from %s: %v", peer, err)
			}
			return
		}

		log.Debugf("request from %s: %T", peer, req)
		reply := Dispatch(req, s.store)

		if err := writer.WriteFrame(reply); err != nil {
			log.Errorf("write to %s failed: %v", peer, err)
			return
		}
	}
}
