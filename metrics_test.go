// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/respd/resp"
)

func TestCommandMetric_UnknownNamesShareOneLabel(t *testing.T) {
	st := NewStore()

	before := testutil.ToFloat64(commandsTotal.WithLabelValues("unknown"))
	Dispatch(resp.Array{resp.BulkString("FLOOD-0001")}, st)
	Dispatch(resp.Array{resp.BulkString("FLOOD-0002")}, st)
	after := testutil.ToFloat64(commandsTotal.WithLabelValues("unknown"))
	require.Equal(t, before+2, after)

	// The hostile names minted no labels of their own.
	require.Zero(t, testutil.ToFloat64(commandsTotal.WithLabelValues("FLOOD-0001")))
	require.Zero(t, testutil.ToFloat64(commandsTotal.WithLabelValues("flood-0001")))
}

func TestCommandMetric_KnownNamesKeepTheirLabel(t *testing.T) {
	st := NewStore()

	before := testutil.ToFloat64(commandsTotal.WithLabelValues("ping"))
	Dispatch(resp.Array{resp.BulkString("PING")}, st)
	Dispatch(resp.Array{resp.BulkString("ping")}, st)
	after := testutil.ToFloat64(commandsTotal.WithLabelValues("ping"))
	require.Equal(t, before+2, after)
}
