// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"strconv"
	"strings"
)

// Pose is the five-axis position and orientation of the arm's tool
// point: X, Y, Z in millimeters, pitch P and roll R in degrees.
// Pose is a value type; cached poses are always handed out as copies.
type Pose struct {
	X float64
	Y float64
	Z float64
	P float64
	R float64
}

// Add returns the pose offset by d on every axis.
func (p Pose) Add(d Pose) Pose {
	return Pose{
		X: p.X + d.X,
		Y: p.Y + d.Y,
		Z: p.Z + d.Z,
		P: p.P + d.P,
		R: p.R + d.R,
	}
}

func (p Pose) String() string {
	return fmt.Sprintf("x=%.1f y=%.1f z=%.1f p=%.1f r=%.1f", p.X, p.Y, p.Z, p.P, p.R)
}

// ParsePose parses a WH position report into a Pose.
//
// The controller pads fields like "+012.300", " .500" or "-001.000".
// Each field is trimmed, a leading '+' is stripped, and a bare leading
// decimal point gains a '0' prefix. Fewer than five fields, or a field
// that still fails to parse, yields ErrMalformedResponse.
func ParsePose(s string) (Pose, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 5 {
		return Pose{}, fmt.Errorf("%w: expected 5 fields, got %d in %q", ErrMalformedResponse, len(fields), s)
	}

	var vals [5]float64
	for i := 0; i < 5; i++ {
		v, err := parseCoordinate(fields[i])
		if err != nil {
			return Pose{}, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedResponse, i+1, s, err)
		}
		vals[i] = v
	}

	return Pose{X: vals[0], Y: vals[1], Z: vals[2], P: vals[3], R: vals[4]}, nil
}

func parseCoordinate(field string) (float64, error) {
	t := strings.TrimSpace(field)
	t = strings.TrimPrefix(t, "+")
	if strings.HasPrefix(t, ".") {
		t = "0" + t
	} else if strings.HasPrefix(t, "-.") {
		t = "-0" + t[1:]
	}
	return strconv.ParseFloat(t, 64)
}
