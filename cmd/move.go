// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var (
	moveInterpolate int
	moveCheck       bool
)

var moveCmd = &cobra.Command{
	Use:   "move <x> <y> <z> <p> <r>",
	Short: "Move the arm to an absolute pose",
	Long: `Move the arm to an absolute pose: x, y, z in millimeters,
pitch and roll in degrees.

With --interpolate N the controller inserts N intermediate points on a
straight line to the target. With --check the controller error code is
read back after the move and a non-zero code fails the command.

Examples:
  movemaster move 100 0 50 -90 0 --port /dev/ttyUSB0
  movemaster move 100 0 50 -90 0 --interpolate 10 --check`,
	Args: cobra.ExactArgs(5),
	RunE: runMove,
}

var deltaCmd = &cobra.Command{
	Use:   "delta <dx> <dy> <dz> [<dp> <dr>]",
	Short: "Move the arm relative to its current pose",
	Long: `Move the arm by deltas from its current pose. The three-argument
form keeps the current pitch and roll; the five-argument form offsets
all axes. The current pose is read from the controller first.

Examples:
  movemaster delta 0 0 -10
  movemaster delta 5 0 0 10 -10 --check`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 3 && len(args) != 5 {
			return fmt.Errorf("expected 3 or 5 deltas, got %d", len(args))
		}
		return nil
	},
	RunE: runDelta,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deltaCmd)

	moveCmd.Flags().IntVar(&moveInterpolate, "interpolate", 0, "Number of interpolated intermediate points")
	moveCmd.Flags().BoolVar(&moveCheck, "check", false, "Read back the controller error code afterwards")
	deltaCmd.Flags().IntVar(&moveInterpolate, "interpolate", 0, "Number of interpolated intermediate points")
	deltaCmd.Flags().BoolVar(&moveCheck, "check", false, "Read back the controller error code afterwards")
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, a)
		}
		out[i] = v
	}
	return out, nil
}

// maybeChecked wraps op with the error-check query when --check is set.
func maybeChecked(ctx context.Context, r *movemaster.Robot, op func(context.Context) error) error {
	if moveCheck {
		return r.Checked(ctx, op)
	}
	return op(ctx)
}

func runMove(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}
	target := movemaster.Pose{X: vals[0], Y: vals[1], Z: vals[2], P: vals[3], R: vals[4]}

	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := maybeChecked(ctx, r, func(ctx context.Context) error {
			return r.MoveTo(ctx, target, moveInterpolate)
		}); err != nil {
			return err
		}
		fmt.Printf("Moved to %s\n", target)
		return nil
	})
}

func runDelta(cmd *cobra.Command, args []string) error {
	vals, err := parseFloats(args)
	if err != nil {
		return err
	}

	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		// Seed the cache; a fresh process has no pose yet.
		if _, err := r.Pose(ctx, true); err != nil {
			return err
		}

		op := func(ctx context.Context) error {
			if len(vals) == 3 {
				return r.MoveDelta(ctx, vals[0], vals[1], vals[2], moveInterpolate)
			}
			d := movemaster.Pose{X: vals[0], Y: vals[1], Z: vals[2], P: vals[3], R: vals[4]}
			return r.MoveDeltaPose(ctx, d, moveInterpolate)
		}
		if err := maybeChecked(ctx, r, op); err != nil {
			return err
		}

		pose, err := r.Pose(ctx, false)
		if err != nil {
			return err
		}
		fmt.Printf("Moved to %s\n", pose)
		return nil
	})
}
