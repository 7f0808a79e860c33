// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := movemaster.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

var discoverTimeout int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Probe serial ports for a responding controller",
	Long: `Open each serial port on this host with the controller line
configuration and issue a pose query. Ports that answer are reported
with the pose they returned.

Exit codes:
  0 - at least one controller found
  1 - no controller responded`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 2, "Per-port probe timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ports, err := movemaster.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		os.Exit(1)
	}

	found := 0
	for _, port := range ports {
		fmt.Printf("Probing %s... ", port)

		robot, err := movemaster.Connect(port,
			movemaster.WithResponseTimeout(time.Duration(discoverTimeout)*time.Second))
		if err != nil {
			fmt.Printf("open failed: %v\n", err)
			continue
		}

		pose, err := robot.Pose(context.Background(), true)
		robot.Close()
		if err != nil {
			fmt.Println("no response")
			continue
		}

		fmt.Printf("controller found at %s\n", pose)
		found++
	}

	fmt.Printf("\nControllers found: %d\n", found)
	if found == 0 {
		os.Exit(1)
	}
	return nil
}
