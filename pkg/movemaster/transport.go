// SPDX-License-Identifier: Apache-2.0

package movemaster

import "io"

// Transport is the byte-stream capability set the engine consumes.
// The stream carries no framing of its own; the engine imposes CR-LF
// line framing on top of it. A serial port is the usual transport, but
// anything byte-transparent works (see the websocket bridge in cmd).
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}
