// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("respd")

// InitLogging installs a stderr logging backend with the given level
// ("DEBUG", "INFO", "WARNING", "ERROR", ...). Intended for the process
// entry point; embedders that configure go-logging themselves can skip it.
func InitLogging(level string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module} %{message}`,
	)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}
