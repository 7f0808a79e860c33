// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Move the arm to its origin posture",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
			if err := r.Home(ctx); err != nil {
				return err
			}
			fmt.Println("Homing issued")
			return nil
		})
	},
}

var nestCmd = &cobra.Command{
	Use:   "nest",
	Short: "Move the arm to its mechanical origin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
			if err := r.Nest(ctx); err != nil {
				return err
			}
			fmt.Println("Nesting issued")
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the control box",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
			if err := r.Reset(ctx); err != nil {
				return err
			}
			fmt.Println("Reset issued")
			return nil
		})
	},
}

var errcodeCmd = &cobra.Command{
	Use:   "errcode",
	Short: "Query the controller error code",
	Long: `Query the controller's current error code and print the mapped
classification. Also serves as a link check: a reply at all proves the
line configuration and framing are working.

Exit codes:
  0 - controller reports ok
  1 - controller reports an error
  2 - connection failure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
			code, err := r.ErrorCode(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Controller: %s\n", code)
			if code != movemaster.CodeOk {
				os.Exit(1)
			}
			return nil
		})
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <d1> <d2> <d3> <d4> <d5>",
	Short: "Rotate individual axes by angular deltas",
	Long: `Rotate each of the five axes by the given deltas in degrees.
The pose is re-read from the controller afterwards, since axis
rotation does not map to a simple offset of the cached pose.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		vals, err := parseFloats(args)
		if err != nil {
			return err
		}
		d := movemaster.Pose{X: vals[0], Y: vals[1], Z: vals[2], P: vals[3], R: vals[4]}
		return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
			if err := r.RotateAxes(ctx, d); err != nil {
				return err
			}
			pose, err := r.Pose(ctx, false)
			if err != nil {
				return err
			}
			fmt.Printf("Now at %s\n", pose)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(nestCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(errcodeCmd)
	rootCmd.AddCommand(rotateCmd)
}
