// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var poseCmd = &cobra.Command{
	Use:   "pose",
	Short: "Query the arm's current pose",
	Long: `Query the controller for the arm's current pose and print it.

Example:
  movemaster pose --port /dev/ttyUSB0`,
	RunE: runPose,
}

func init() {
	rootCmd.AddCommand(poseCmd)
}

func runPose(cmd *cobra.Command, args []string) error {
	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		pose, err := r.Pose(ctx, true)
		if err != nil {
			return err
		}
		fmt.Printf("x: %8.1f mm\n", pose.X)
		fmt.Printf("y: %8.1f mm\n", pose.Y)
		fmt.Printf("z: %8.1f mm\n", pose.Z)
		fmt.Printf("p: %8.1f deg\n", pose.P)
		fmt.Printf("r: %8.1f deg\n", pose.R)
		return nil
	})
}
