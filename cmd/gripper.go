// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var gripperCmd = &cobra.Command{
	Use:       "gripper open|close",
	Short:     "Open or close the gripper",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"open", "close"},
	RunE:      runGripper,
}

func init() {
	rootCmd.AddCommand(gripperCmd)
}

func runGripper(cmd *cobra.Command, args []string) error {
	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		switch args[0] {
		case "open":
			if err := r.OpenGripper(ctx); err != nil {
				return err
			}
			fmt.Println("Gripper open")
		case "close":
			if err := r.CloseGripper(ctx); err != nil {
				return err
			}
			fmt.Println("Gripper closed")
		default:
			return fmt.Errorf("unknown gripper action %q (use open or close)", args[0])
		}
		return nil
	})
}
