// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for the protocol engine. Wrapped errors carry
// context; match with errors.Is.
var (
	// ErrPortNotOpen is returned when an operation is attempted before
	// the transport is connected or after it has been closed.
	ErrPortNotOpen = errors.New("port not open")

	// ErrWriteFailed is returned when the transport rejects a write.
	ErrWriteFailed = errors.New("write failed")

	// ErrTimeout is returned when no framed response arrives within the
	// configured bound. The channel is desynchronized afterwards and
	// must be reopened.
	ErrTimeout = errors.New("response timeout")

	// ErrMalformedResponse is returned when a pose report cannot be
	// parsed into five numeric fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoCachedPose is returned from relative moves issued before any
	// pose is known.
	ErrNoCachedPose = errors.New("no cached pose")

	// ErrProtocolViolation is returned when a second request overlaps
	// one already in flight on the same channel. The protocol has no
	// request identifiers, so overlap would corrupt correlation.
	ErrProtocolViolation = errors.New("overlapping request on command channel")

	// ErrDisconnected is returned when the channel is used after close
	// or after a timeout desynchronization.
	ErrDisconnected = errors.New("channel disconnected")
)

// ValidationError reports an argument outside its device-accepted
// range. It is raised before any bytes are written.
type ValidationError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// CommandError reports a non-zero error code read back from the
// controller after an operation.
type CommandError struct {
	Code ErrorCode
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("controller reported %s (code %d)", e.Code, int(e.Code))
}

// ParseErrorCode maps an ER reply onto the three-way code taxonomy.
// The controller conflates finer-grained causes into these codes;
// no further interpretation is attempted.
func ParseErrorCode(s string) ErrorCode {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return CodeUnknown
	}
	switch n {
	case 0:
		return CodeOk
	case 1:
		return CodeHardwareError
	case 2:
		return CodeCommandOrPositionError
	default:
		return CodeUnknown
	}
}
