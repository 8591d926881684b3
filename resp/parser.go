// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package resp

import (
	"bufio"
	"io"
	"slices"
	"strconv"
)

// bulkChunk bounds how far the parser grows a bulk payload buffer ahead of
// bytes actually arriving.
const bulkChunk = 64 * 1024

// Parser reads frames from a byte stream.
//
// Framing contract: each call to Next consumes exactly the bytes of one
// frame. The look-ahead needed for line reads stays inside the Parser's
// buffered reader, so callers must keep reading through the same Parser
// instance for the remainder of the connection.
type Parser struct {
	r     *bufio.Reader
	limit int64
}

// NewParser returns a Parser reading frames from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Parser{r: bufferedReader(r), limit: int64(o.ReadLimit)}
}

func bufferedReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// Next reads and returns exactly one frame.
//
// io.EOF is returned only when the stream ends cleanly at a frame boundary,
// before any byte of a new frame; a stream truncated mid-frame yields
// io.ErrUnexpectedEOF. Malformed input yields one of the resp error values.
func (p *Parser) Next() (Frame, error) {
	if p == nil || p.r == nil {
		return nil, ErrInvalidArgument
	}
	prefix, err := p.r.ReadByte()
	if err != nil {
		// EOF at a frame boundary is a normal close.
		return nil, err
	}

	switch prefix {
	case '+':
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		return SimpleString(line), nil
	case '-':
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		return Error(line), nil
	case ':':
		return p.parseInteger()
	case '$':
		return p.parseBulkString()
	case '*':
		return p.parseArray()
	default:
		return nil, ErrUnknownPrefix
	}
}

// readLine reads up to and including the next CRLF and returns the bytes
// before it. A bare LF or a stream ending mid-line is rejected.
func (p *Parser) readLine() ([]byte, error) {
	line, err := p.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, ErrMissingCRLF
	}
	return line[:len(line)-2], nil
}

func (p *Parser) parseInteger() (Frame, error) {
	line, err := p.readLine()
	if err != nil {
		return nil, err
	}
	v, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return nil, ErrInvalidInteger
	}
	return Integer(v), nil
}

func (p *Parser) parseBulkString() (Frame, error) {
	n, err := p.readLength()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return Null{}, nil
	}
	if n < 0 {
		return nil, ErrInvalidLength
	}
	if p.limit > 0 && n > p.limit {
		return nil, ErrTooLong
	}

	// The declared length is untrusted. Grow the payload buffer at most one
	// chunk past the bytes already read, so a length the peer never backs
	// with data fails with io.ErrUnexpectedEOF instead of sizing an
	// allocation from the length line.
	payload := make([]byte, 0, min(n, bulkChunk))
	for int64(len(payload)) < n {
		step := int(min(n-int64(len(payload)), bulkChunk))
		off := len(payload)
		payload = slices.Grow(payload, step)[:off+step]
		if _, err := io.ReadFull(p.r, payload[off:]); err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}

	var crlf [2]byte
	if _, err := io.ReadFull(p.r, crlf[:]); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return nil, ErrMissingCRLF
	}
	return BulkString(payload), nil
}

func (p *Parser) parseArray() (Frame, error) {
	n, err := p.readLength()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		// Null-array input form; re-serializes as the bulk null.
		return Null{}, nil
	}
	if n < 0 {
		return nil, ErrInvalidLength
	}
	if p.limit > 0 && n > p.limit {
		return nil, ErrTooLong
	}

	out := make(Array, 0, min(n, 64))
	for i := int64(0); i < n; i++ {
		child, err := p.Next()
		if err != nil {
			if err == io.EOF {
				// Stream ended between elements: the array is incomplete.
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// readLength parses a CRLF-terminated signed decimal length line.
func (p *Parser) readLength() (int64, error) {
	line, err := p.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, ErrInvalidLength
	}
	return n, nil
}
