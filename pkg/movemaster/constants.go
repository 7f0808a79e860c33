// SPDX-License-Identifier: Apache-2.0

// Package movemaster drives a Mitsubishi Movemaster-class robot arm
// over its textual serial command language.
//
// The controller speaks a line-oriented protocol: commands are short
// ASCII mnemonics with comma-separated one-decimal numeric arguments,
// terminated by CR LF. Most commands are fire-and-forget; only the
// pose query (WH) and the error-code query (ER) produce a reply. The
// package keeps a local cache of the last commanded pose, gripper
// state, tool length and speed, and resynchronizes it from hardware
// on demand.
package movemaster

import "time"

// Line terminator for commands and responses.
const terminator = "\r\n"

// Wire command mnemonics. These are the controller's vocabulary and
// must not be altered.
const (
	cmdMovePosition   = "MP" // absolute move
	cmdPositionClear  = "PC" // clear a path slot
	cmdPositionDefine = "PD" // store a pose into a path slot
	cmdMoveStraight   = "MS" // move to a stored slot with interpolation
	cmdMoveContinuous = "MC" // execute a stored slot range
	cmdWhere          = "WH" // query current pose
	cmdGripOpen       = "GO"
	cmdGripClose      = "GC"
	cmdSpeed          = "SP"
	cmdToolLength     = "TL"
	cmdGripPressure   = "GP"
	cmdMoveJoint      = "MJ" // rotate individual axes
	cmdOriginGo       = "OG" // move to origin posture
	cmdNest           = "NT" // mechanical origin
	cmdReset          = "RS" // control box reset
	cmdErrorRead      = "ER" // query error code
)

// Argument limits enforced before any bytes reach the wire.
const (
	MinSpeed = 0
	MaxSpeed = 9

	// Tool length in whole millimeters. The TL argument is an integer
	// field; negative or implausibly long tools are rejected.
	MaxToolLength = 999

	MaxGripStartForce = 15
	MaxGripHoldForce  = 15
	MaxGripStartTime  = 99
)

// Timing defaults.
const (
	// DefaultSettleDelay paces fire-and-forget commands. The controller
	// has no per-command acknowledgment and its input buffer overruns
	// on back-to-back commands.
	DefaultSettleDelay = 100 * time.Millisecond

	// DefaultResponseTimeout bounds the wait for a framed response.
	DefaultResponseTimeout = 5 * time.Second
)

// ErrorCode is the controller's three-way error classification as
// reported by the ER query.
type ErrorCode int

// Error code values. Anything outside 0-2, or an unparseable reply,
// maps to CodeUnknown.
const (
	CodeOk                     ErrorCode = 0
	CodeHardwareError          ErrorCode = 1
	CodeCommandOrPositionError ErrorCode = 2
	CodeUnknown                ErrorCode = -1
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOk:
		return "ok"
	case CodeHardwareError:
		return "hardware error"
	case CodeCommandOrPositionError:
		return "command or position error"
	default:
		return "unknown error"
	}
}
