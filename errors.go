// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import "errors"

var (
	// ErrServerClosed is returned by Serve and ListenAndServe after Close.
	ErrServerClosed = errors.New("respd: server closed")

	// ErrNotUTF8 reports a stored value that cannot be numerically
	// interpreted because it is not valid UTF-8.
	ErrNotUTF8 = errors.New("respd: value is not valid UTF-8")

	// ErrNotInteger reports a stored value that is not a decimal signed
	// 64-bit integer.
	ErrNotInteger = errors.New("respd: value is not an integer")
)
