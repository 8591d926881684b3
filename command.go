// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"code.hybscloud.com/respd/resp"
)

// Dispatch executes one parsed request frame against the store and returns
// the reply frame. Command errors (arity, argument type, unknown command)
// are reported as resp.Error replies; Dispatch itself never fails, so the
// connection stays open after any reply.
func Dispatch(req resp.Frame, st *Store) resp.Frame {
	args, ok := req.(resp.Array)
	if !ok {
		return resp.Error("ERR command must be an array")
	}
	if len(args) == 0 {
		return resp.Error("ERR empty command")
	}

	name, ok := commandName(args[0])
	if !ok {
		return resp.Error("ERR invalid command format")
	}
	countCommand(name)

	switch name {
	case "PING":
		switch len(args) {
		case 1:
			return resp.SimpleString("PONG")
		case 2:
			return args[1]
		default:
			return wrongArity(name)
		}

	case "ECHO":
		if len(args) != 2 {
			return wrongArity(name)
		}
		return args[1]

	case "COMMAND":
		// Minimal stub so client handshakes succeed.
		return resp.Array{}

	case "SET":
		if len(args) != 3 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		value, ok := bulkArg(args[2])
		if !ok {
			return resp.Error("ERR value is not a BulkString")
		}
		st.Set(key, value)
		return resp.SimpleString("OK")

	case "GET":
		if len(args) != 2 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		value, ok := st.Get(key)
		if !ok {
			return resp.Null{}
		}
		return resp.BulkString(value)

	case "DEL":
		if len(args) < 2 {
			return wrongArity(name)
		}
		// Non-BulkString arguments are silently skipped.
		return resp.Integer(st.Delete(bulkArgs(args[1:])...))

	case "EXISTS":
		if len(args) < 2 {
			return wrongArity(name)
		}
		return resp.Integer(st.Exists(bulkArgs(args[1:])...))

	case "EXPIRE":
		if len(args) != 3 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		raw, ok := bulkArg(args[2])
		if !ok {
			return resp.Error("ERR expiry is not a BulkString")
		}
		if !utf8.Valid(raw) {
			return resp.Error("ERR expiry is not valid UTF-8")
		}
		seconds, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return resp.Error("ERR expiry is not a valid integer")
		}
		return resp.Integer(st.Expire(key, seconds))

	case "TTL":
		if len(args) != 2 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		return resp.Integer(st.TTL(key))

	case "INCR":
		return incrBy(args, st, +1)

	case "DECR":
		return incrBy(args, st, -1)

	case "KEYS":
		if len(args) != 2 {
			return wrongArity(name)
		}
		pattern, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR pattern is not a BulkString")
		}
		if string(pattern) != "*" {
			return resp.Error("ERR only '*' pattern is supported")
		}
		keys := st.Keys()
		out := make(resp.Array, 0, len(keys))
		for _, k := range keys {
			out = append(out, resp.BulkString(k))
		}
		return out

	case "MSET":
		if len(args) < 3 || len(args)%2 == 0 {
			return wrongArity(name)
		}
		pairs := make([][]byte, 0, len(args)-1)
		for i := 1; i+1 < len(args); i += 2 {
			key, kok := bulkArg(args[i])
			value, vok := bulkArg(args[i+1])
			if !kok || !vok {
				// Pairs with a non-BulkString member are skipped.
				continue
			}
			pairs = append(pairs, key, value)
		}
		st.MSet(pairs...)
		return resp.SimpleString("OK")

	case "MGET":
		if len(args) < 2 {
			return wrongArity(name)
		}
		keys := make([][]byte, 0, len(args)-1)
		for _, a := range args[1:] {
			if key, ok := bulkArg(a); ok {
				keys = append(keys, key)
			} else {
				// nil marks a non-key position; MGet yields Null for it.
				keys = append(keys, nil)
			}
		}
		values := st.MGet(keys...)
		out := make(resp.Array, 0, len(values))
		for _, v := range values {
			if v == nil {
				out = append(out, resp.Null{})
			} else {
				out = append(out, resp.BulkString(v))
			}
		}
		return out

	case "STRLEN":
		if len(args) != 2 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		return resp.Integer(st.StrLen(key))

	case "GETSET":
		if len(args) != 3 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		value, ok := bulkArg(args[2])
		if !ok {
			return resp.Error("ERR value is not a BulkString")
		}
		prev, ok := st.GetSet(key, value)
		if !ok {
			return resp.Null{}
		}
		return resp.BulkString(prev)

	case "APPEND":
		if len(args) != 3 {
			return wrongArity(name)
		}
		key, ok := bulkArg(args[1])
		if !ok {
			return resp.Error("ERR key is not a BulkString")
		}
		suffix, ok := bulkArg(args[2])
		if !ok {
			return resp.Error("ERR value is not a BulkString")
		}
		return resp.Integer(st.Append(key, suffix))

	default:
		return resp.Error("ERR unknown command '" + name + "'")
	}
}

// commandName extracts the uppercased command name from the first request
// element. BulkString names are interpreted as UTF-8 with invalid bytes
// replaced; SimpleString names are taken as-is.
func commandName(f resp.Frame) (string, bool) {
	switch f := f.(type) {
	case resp.BulkString:
		return strings.ToUpper(strings.ToValidUTF8(string(f), string(utf8.RuneError))), true
	case resp.SimpleString:
		return strings.ToUpper(string(f)), true
	default:
		return "", false
	}
}

func wrongArity(name string) resp.Error {
	return resp.Error("ERR wrong number of arguments for '" + strings.ToLower(name) + "' command")
}

func bulkArg(f resp.Frame) ([]byte, bool) {
	b, ok := f.(resp.BulkString)
	if ok && b == nil {
		// Normalize so an empty key is never confused with "no key".
		b = []byte{}
	}
	return b, ok
}

// bulkArgs extracts the BulkString arguments from frames, dropping
// everything else.
func bulkArgs(frames []resp.Frame) [][]byte {
	keys := make([][]byte, 0, len(frames))
	for _, f := range frames {
		if key, ok := bulkArg(f); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func incrBy(args resp.Array, st *Store, delta int64) resp.Frame {
	if len(args) != 2 {
		if delta < 0 {
			return wrongArity("DECR")
		}
		return wrongArity("INCR")
	}
	key, ok := bulkArg(args[1])
	if !ok {
		return resp.Error("ERR key is not a BulkString")
	}
	next, err := st.IncrBy(key, delta)
	switch err {
	case nil:
		return resp.Integer(next)
	case ErrNotUTF8:
		return resp.Error("ERR value is not valid UTF-8")
	default:
		return resp.Error("ERR value is not an integer")
	}
}
