// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "connections_total",
		Help:      "Total accepted client connections.",
	})
	openConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "respd",
		Name:      "open_connections",
		Help:      "Currently open client connections.",
	})
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "commands_total",
		Help:      "Dispatched commands by name.",
	}, []string{"command"})
	framingErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "respd",
		Name:      "framing_errors_total",
		Help:      "Connections closed due to malformed framing.",
	})
)

// knownCommands pins the commands_total label set. Names the dispatcher
// does not implement all share one label, so client-supplied command names
// cannot grow metric cardinality.
var knownCommands = map[string]struct{}{
	"PING": {}, "ECHO": {}, "COMMAND": {},
	"SET": {}, "GET": {}, "DEL": {}, "EXISTS": {},
	"EXPIRE": {}, "TTL": {},
	"INCR": {}, "DECR": {},
	"KEYS": {}, "MSET": {}, "MGET": {},
	"STRLEN": {}, "GETSET": {}, "APPEND": {},
}

func countCommand(name string) {
	label := "unknown"
	if _, ok := knownCommands[name]; ok {
		label = strings.ToLower(name)
	}
	commandsTotal.WithLabelValues(label).Inc()
}

func init() {
	prometheus.MustRegister(
		connectionsTotal,
		openConnections,
		commandsTotal,
		framingErrorsTotal,
	)
}
