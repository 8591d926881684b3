// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command respd runs the RESP key-value server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"code.hybscloud.com/respd"
)

func main() {
	var (
		configPath  = flag.String("c", "", "path to TOML config file")
		bindAddr    = flag.String("b", "", "listen address (overrides config)")
		metricsAddr = flag.String("m", "", "prometheus scrape address (overrides config)")
	)
	flag.Parse()

	cfg := respd.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = respd.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *bindAddr != "" {
		cfg.Addr = *bindAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if err := respd.InitLogging(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	server := respd.New(
		respd.WithAddr(cfg.Addr),
		respd.WithReadLimit(cfg.ReadLimit),
	)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, promhttp.Handler()); err != nil {
				fmt.Fprintf(os.Stderr, "metrics endpoint: %v\n", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, respd.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
