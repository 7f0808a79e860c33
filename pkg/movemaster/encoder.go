// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"strconv"
)

// Command encoding is pure and stateless: typed requests render to the
// exact wire text the controller expects. Numeric arguments are fixed
// one-decimal literals (12.3, -1.0).

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// EncodeMovePosition renders the absolute move command.
func EncodeMovePosition(p Pose) string {
	return fmt.Sprintf("%s %s,%s,%s,%s,%s", cmdMovePosition,
		num(p.X), num(p.Y), num(p.Z), num(p.P), num(p.R))
}

// EncodePositionClear renders the path-slot clear command.
func EncodePositionClear(slot int) string {
	return fmt.Sprintf("%s %d", cmdPositionClear, slot)
}

// EncodePositionDefine renders the command storing a pose into a path
// slot. Slots are 1-based on the wire.
func EncodePositionDefine(slot int, p Pose) string {
	return fmt.Sprintf("%s %d,%s,%s,%s,%s,%s", cmdPositionDefine, slot,
		num(p.X), num(p.Y), num(p.Z), num(p.P), num(p.R))
}

// EncodeMoveStraight renders the interpolated move to a stored slot.
// points is the number of intermediate points the controller inserts;
// the trailing flag tells it whether the gripper is open or closed.
func EncodeMoveStraight(slot, points int, gripperOpen bool) string {
	flag := "C"
	if gripperOpen {
		flag = "O"
	}
	return fmt.Sprintf("%s %d,%d,%s", cmdMoveStraight, slot, points, flag)
}

// EncodeMoveContinuous renders the command executing stored slots
// first through last as one motion.
func EncodeMoveContinuous(first, last int) string {
	return fmt.Sprintf("%s %d,%d", cmdMoveContinuous, first, last)
}

// EncodeSpeed renders the speed class command.
func EncodeSpeed(speed int) string {
	return fmt.Sprintf("%s %d", cmdSpeed, speed)
}

// EncodeToolLength renders the tool length command (whole millimeters).
func EncodeToolLength(mm int) string {
	return fmt.Sprintf("%s %d", cmdToolLength, mm)
}

// EncodeGripPressure renders the grip pressure command.
func EncodeGripPressure(startForce, holdForce, startTime int) string {
	return fmt.Sprintf("%s %d,%d,%d", cmdGripPressure, startForce, holdForce, startTime)
}

// EncodeMoveJoint renders the per-axis rotation command.
func EncodeMoveJoint(d Pose) string {
	return fmt.Sprintf("%s %s,%s,%s,%s,%s", cmdMoveJoint,
		num(d.X), num(d.Y), num(d.Z), num(d.P), num(d.R))
}
