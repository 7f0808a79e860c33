// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed <0-9>",
	Short: "Set the movement speed class",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpeed,
}

var toolCmd = &cobra.Command{
	Use:   "tool <mm>",
	Short: "Set the tool length in millimeters",
	Args:  cobra.ExactArgs(1),
	RunE:  runTool,
}

var pressureCmd = &cobra.Command{
	Use:   "pressure <start-force> <hold-force> <start-time>",
	Short: "Set the grip pressure",
	Long: `Set the gripper pressure parameters: starting force (0-15),
retained force (0-15) and start time (0-99).`,
	Args: cobra.ExactArgs(3),
	RunE: runPressure,
}

func init() {
	rootCmd.AddCommand(speedCmd)
	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(pressureCmd)
}

func runSpeed(cmd *cobra.Command, args []string) error {
	speed, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", args[0])
	}
	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := r.SetSpeed(ctx, speed); err != nil {
			return err
		}
		set, _ := r.Speed()
		fmt.Printf("Speed set to %d\n", set)
		return nil
	})
}

func runTool(cmd *cobra.Command, args []string) error {
	mm, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", args[0])
	}
	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := r.SetToolLength(ctx, mm); err != nil {
			return err
		}
		set, _ := r.ToolLength()
		fmt.Printf("Tool length set to %d mm\n", set)
		return nil
	})
}

func runPressure(cmd *cobra.Command, args []string) error {
	var vals [3]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("argument %d: %q is not an integer", i+1, a)
		}
		vals[i] = v
	}
	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := r.SetGripPressure(ctx, vals[0], vals[1], vals[2]); err != nil {
			return err
		}
		fmt.Printf("Grip pressure set to %d,%d,%d\n", vals[0], vals[1], vals[2])
		return nil
	})
}
