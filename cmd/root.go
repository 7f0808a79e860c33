// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string

	// WebSocket bridge flags
	wsURL         string
	wsNoSSLVerify bool

	// Wire capture flag
	capturePath string
)

var rootCmd = &cobra.Command{
	Use:   "movemaster",
	Short: "Movemaster robot arm control",
	Long: `movemaster - command-line control for Movemaster-class robot arms.

Drives the arm over its textual serial protocol: absolute, relative and
multi-point path moves, gripper and speed control, pose queries and
controller error readout.

Connection modes:
  Serial:    --port /dev/ttyUSB0 (9600 baud, 7 data bits, even parity,
             2 stop bits - the controller's fixed line setup)
  WebSocket: --url ws://host/path (serial-over-websocket bridge)

Wire traffic can be appended to a CBOR capture file with --capture and
inspected later with "movemaster capture dump".`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
	rootCmd.PersistentFlags().StringVar(&capturePath, "capture", "", "Append wire traffic to a CBOR capture file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
