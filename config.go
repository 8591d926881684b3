// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	logging "gopkg.in/op/go-logging.v1"

	"code.hybscloud.com/respd/resp"
)

// Config is the on-disk (TOML) configuration consumed by cmd/respd.
type Config struct {
	// Addr is the TCP listen address.
	Addr string `toml:"addr"`

	// ReadLimit caps the declared length of a single inbound bulk string
	// or array. Zero disables the cap.
	ReadLimit int `toml:"read_limit"`

	// LogLevel is a go-logging level name ("DEBUG", "INFO", ...).
	LogLevel string `toml:"log_level"`

	// MetricsAddr, when non-empty, is the address of the Prometheus scrape
	// endpoint served by cmd/respd.
	MetricsAddr string `toml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:      DefaultAddr,
		ReadLimit: resp.DefaultReadLimit,
		LogLevel:  "INFO",
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig and
// validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("respd: config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values without touching the network.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("respd: config: addr must not be empty")
	}
	if c.ReadLimit < 0 {
		return fmt.Errorf("respd: config: read_limit must not be negative")
	}
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("respd: config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
