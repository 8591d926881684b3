// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/respd"
	"code.hybscloud.com/respd/resp"
)

func cmd(parts ...string) resp.Array {
	out := make(resp.Array, 0, len(parts))
	for _, p := range parts {
		out = append(out, resp.BulkString(p))
	}
	return out
}

func dispatch(t *testing.T, st *respd.Store, parts ...string) resp.Frame {
	t.Helper()
	return respd.Dispatch(cmd(parts...), st)
}

func TestDispatch_RequestShape(t *testing.T) {
	st := respd.NewStore()

	require.Equal(t, resp.Error("ERR command must be an array"),
		respd.Dispatch(resp.SimpleString("PING"), st))
	require.Equal(t, resp.Error("ERR command must be an array"),
		respd.Dispatch(resp.BulkString("PING"), st))
	require.Equal(t, resp.Error("ERR command must be an array"),
		respd.Dispatch(resp.Null{}, st))

	require.Equal(t, resp.Error("ERR empty command"),
		respd.Dispatch(resp.Array{}, st))

	require.Equal(t, resp.Error("ERR invalid command format"),
		respd.Dispatch(resp.Array{resp.Integer(1)}, st))
	require.Equal(t, resp.Error("ERR invalid command format"),
		respd.Dispatch(resp.Array{resp.Array{}}, st))
}

func TestDispatch_CommandNameForms(t *testing.T) {
	st := respd.NewStore()

	// Case-insensitive.
	require.Equal(t, resp.SimpleString("PONG"), dispatch(t, st, "ping"))
	require.Equal(t, resp.SimpleString("PONG"), dispatch(t, st, "PiNg"))

	// A SimpleString command name is accepted too.
	got := respd.Dispatch(resp.Array{resp.SimpleString("ping")}, st)
	require.Equal(t, resp.SimpleString("PONG"), got)
}

func TestDispatch_PingEcho(t *testing.T) {
	st := respd.NewStore()

	require.Equal(t, resp.SimpleString("PONG"), dispatch(t, st, "PING"))
	require.Equal(t, resp.BulkString("hey"), dispatch(t, st, "PING", "hey"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'ping' command"),
		dispatch(t, st, "PING", "a", "b"))

	// PING and ECHO echo the argument frame whatever its type.
	got := respd.Dispatch(resp.Array{resp.BulkString("PING"), resp.Integer(7)}, st)
	require.Equal(t, resp.Integer(7), got)

	require.Equal(t, resp.BulkString("hello"), dispatch(t, st, "ECHO", "hello"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'echo' command"),
		dispatch(t, st, "ECHO"))
}

func TestDispatch_CommandStub(t *testing.T) {
	st := respd.NewStore()
	require.Equal(t, resp.Array{}, dispatch(t, st, "COMMAND"))
	require.Equal(t, resp.Array{}, dispatch(t, st, "COMMAND", "DOCS", "whatever"))
}

func TestDispatch_SetGet(t *testing.T) {
	st := respd.NewStore()

	require.Equal(t, resp.SimpleString("OK"), dispatch(t, st, "SET", "key", "hello"))
	require.Equal(t, resp.BulkString("hello"), dispatch(t, st, "GET", "key"))
	require.Equal(t, resp.Null{}, dispatch(t, st, "GET", "none"))

	require.Equal(t, resp.Error("ERR wrong number of arguments for 'set' command"),
		dispatch(t, st, "SET", "key"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'get' command"),
		dispatch(t, st, "GET"))

	got := respd.Dispatch(resp.Array{resp.BulkString("SET"), resp.Integer(1), resp.BulkString("v")}, st)
	require.Equal(t, resp.Error("ERR key is not a BulkString"), got)
	got = respd.Dispatch(resp.Array{resp.BulkString("SET"), resp.BulkString("k"), resp.Integer(1)}, st)
	require.Equal(t, resp.Error("ERR value is not a BulkString"), got)
}

func TestDispatch_DelExists(t *testing.T) {
	st := respd.NewStore()
	dispatch(t, st, "SET", "a", "1")
	dispatch(t, st, "SET", "c", "3")

	require.Equal(t, resp.Integer(2), dispatch(t, st, "DEL", "a", "b", "c"))

	dispatch(t, st, "SET", "a", "1")
	require.Equal(t, resp.Integer(2), dispatch(t, st, "EXISTS", "a", "a", "b"))

	// Non-BulkString arguments are silently skipped.
	got := respd.Dispatch(resp.Array{
		resp.BulkString("EXISTS"), resp.BulkString("a"), resp.Integer(9),
	}, st)
	require.Equal(t, resp.Integer(1), got)

	require.Equal(t, resp.Error("ERR wrong number of arguments for 'del' command"),
		dispatch(t, st, "DEL"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'exists' command"),
		dispatch(t, st, "EXISTS"))
}

func TestDispatch_ExpireTTL(t *testing.T) {
	st := respd.NewStore()

	// Absent key.
	require.Equal(t, resp.Integer(0), dispatch(t, st, "EXPIRE", "foo", "10"))
	require.Equal(t, resp.Integer(-2), dispatch(t, st, "TTL", "foo"))

	dispatch(t, st, "SET", "k", "v")
	require.Equal(t, resp.Integer(-1), dispatch(t, st, "TTL", "k"))

	require.Equal(t, resp.Integer(1), dispatch(t, st, "EXPIRE", "k", "100"))
	ttl, ok := dispatch(t, st, "TTL", "k").(resp.Integer)
	require.True(t, ok)
	require.True(t, ttl >= 0 && ttl <= 100, "ttl=%d", ttl)

	// EXPIRE 0 deletes and reports 1.
	require.Equal(t, resp.Integer(1), dispatch(t, st, "EXPIRE", "k", "0"))
	require.Equal(t, resp.Null{}, dispatch(t, st, "GET", "k"))
	require.Equal(t, resp.Integer(-2), dispatch(t, st, "TTL", "k"))

	require.Equal(t, resp.Error("ERR expiry is not a valid integer"),
		dispatch(t, st, "EXPIRE", "k", "soon"))
}

func TestDispatch_SetPreservesExpiry(t *testing.T) {
	st := respd.NewStore()
	dispatch(t, st, "SET", "k", "v1")
	dispatch(t, st, "EXPIRE", "k", "100")
	dispatch(t, st, "SET", "k", "v2")

	ttl, ok := dispatch(t, st, "TTL", "k").(resp.Integer)
	require.True(t, ok)
	require.True(t, ttl >= 0 && ttl <= 100, "ttl=%d", ttl)
	require.Equal(t, resp.BulkString("v2"), dispatch(t, st, "GET", "k"))

	// MSET and GETSET clear the expiry instead.
	dispatch(t, st, "MSET", "k", "v3")
	require.Equal(t, resp.Integer(-1), dispatch(t, st, "TTL", "k"))

	dispatch(t, st, "EXPIRE", "k", "100")
	dispatch(t, st, "GETSET", "k", "v4")
	require.Equal(t, resp.Integer(-1), dispatch(t, st, "TTL", "k"))
}

func TestDispatch_IncrDecr(t *testing.T) {
	st := respd.NewStore()

	require.Equal(t, resp.Integer(1), dispatch(t, st, "INCR", "missing"))
	require.Equal(t, resp.BulkString("1"), dispatch(t, st, "GET", "missing"))
	require.Equal(t, resp.Integer(0), dispatch(t, st, "DECR", "missing"))

	dispatch(t, st, "SET", "max", "9223372036854775807")
	require.Equal(t, resp.Integer(9223372036854775807), dispatch(t, st, "INCR", "max"))

	dispatch(t, st, "SET", "s", "foo")
	require.Equal(t, resp.Error("ERR value is not an integer"), dispatch(t, st, "INCR", "s"))

	require.Equal(t, resp.Error("ERR wrong number of arguments for 'incr' command"),
		dispatch(t, st, "INCR"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'decr' command"),
		dispatch(t, st, "DECR", "a", "b"))
}

func TestDispatch_Keys(t *testing.T) {
	st := respd.NewStore()

	require.Equal(t, resp.Array{}, dispatch(t, st, "KEYS", "*"))

	dispatch(t, st, "SET", "a", "1")
	dispatch(t, st, "SET", "b", "2")

	got, ok := dispatch(t, st, "KEYS", "*").(resp.Array)
	require.True(t, ok)
	require.Len(t, got, 2)
	seen := map[string]bool{}
	for _, f := range got {
		b, ok := f.(resp.BulkString)
		require.True(t, ok)
		seen[string(b)] = true
	}
	require.True(t, seen["a"] && seen["b"])

	require.Equal(t, resp.Error("ERR only '*' pattern is supported"),
		dispatch(t, st, "KEYS", "a*"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'keys' command"),
		dispatch(t, st, "KEYS"))
}

func TestDispatch_MSetMGet(t *testing.T) {
	st := respd.NewStore()

	// Even total arity (odd argument count) is rejected.
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'mset' command"),
		dispatch(t, st, "MSET", "a", "1", "b"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'mset' command"),
		dispatch(t, st, "MSET"))

	require.Equal(t, resp.SimpleString("OK"), dispatch(t, st, "MSET", "a", "1", "b", "2"))
	require.Equal(t,
		resp.Array{resp.BulkString("1"), resp.BulkString("2"), resp.Null{}},
		dispatch(t, st, "MGET", "a", "b", "c"))

	// A non-BulkString position yields Null in place.
	got := respd.Dispatch(resp.Array{
		resp.BulkString("MGET"), resp.BulkString("a"), resp.Integer(3), resp.BulkString("b"),
	}, st)
	require.Equal(t, resp.Array{resp.BulkString("1"), resp.Null{}, resp.BulkString("2")}, got)

	require.Equal(t, resp.Error("ERR wrong number of arguments for 'mget' command"),
		dispatch(t, st, "MGET"))
}

func TestDispatch_StrLen(t *testing.T) {
	st := respd.NewStore()
	require.Equal(t, resp.Integer(0), dispatch(t, st, "STRLEN", "missing"))
	dispatch(t, st, "SET", "k", "hello")
	require.Equal(t, resp.Integer(5), dispatch(t, st, "STRLEN", "k"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'strlen' command"),
		dispatch(t, st, "STRLEN", "k", "extra"))
}

func TestDispatch_GetSet(t *testing.T) {
	st := respd.NewStore()
	require.Equal(t, resp.Null{}, dispatch(t, st, "GETSET", "k", "v1"))
	require.Equal(t, resp.BulkString("v1"), dispatch(t, st, "GETSET", "k", "v2"))
	require.Equal(t, resp.BulkString("v2"), dispatch(t, st, "GET", "k"))
	require.Equal(t, resp.Error("ERR wrong number of arguments for 'getset' command"),
		dispatch(t, st, "GETSET", "k"))
}

func TestDispatch_Append(t *testing.T) {
	st := respd.NewStore()

	dispatch(t, st, "SET", "k", "hello")
	require.Equal(t, resp.Integer(11), dispatch(t, st, "APPEND", "k", " world"))
	require.Equal(t, resp.BulkString("hello world"), dispatch(t, st, "GET", "k"))

	// Absent key appends onto the empty value.
	require.Equal(t, resp.Integer(3), dispatch(t, st, "APPEND", "fresh", "abc"))

	require.Equal(t, resp.Error("ERR wrong number of arguments for 'append' command"),
		dispatch(t, st, "APPEND", "k"))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	st := respd.NewStore()
	require.Equal(t, resp.Error("ERR unknown command 'FLUSHALL'"),
		dispatch(t, st, "FLUSHALL"))
	require.Equal(t, resp.Error("ERR unknown command 'NOPE'"),
		dispatch(t, st, "nope"))
}
