// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Position files are YAML documents with named poses and named paths:
//
//	positions:
//	  pickup:  {x: 100.0, y: 0.0, z: 50.0, p: -90.0, r: 0.0}
//	  dropoff: {x: -50.0, y: 120.0, z: 50.0, p: -90.0, r: 0.0}
//	paths:
//	  transfer:
//	    - {x: 100.0, y: 0.0, z: 80.0, p: -90.0, r: 0.0}
//	    - {x: 0.0, y: 60.0, z: 80.0, p: -90.0, r: 0.0}
//	    - {x: -50.0, y: 120.0, z: 80.0, p: -90.0, r: 0.0}

type poseSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	P float64 `yaml:"p"`
	R float64 `yaml:"r"`
}

func (ps poseSpec) pose() movemaster.Pose {
	return movemaster.Pose{X: ps.X, Y: ps.Y, Z: ps.Z, P: ps.P, R: ps.R}
}

type positionsFile struct {
	Positions map[string]poseSpec   `yaml:"positions"`
	Paths     map[string][]poseSpec `yaml:"paths"`
}

func loadPositionsFile(path string) (*positionsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf positionsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse %s: %v", path, err)
	}
	return &pf, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var positionsPath string

var gotoCmd = &cobra.Command{
	Use:   "goto <name>",
	Short: "Move to a named position from a positions file",
	Long: `Move the arm to a position defined in a YAML positions file.
Without a name, the known positions are listed.

Examples:
  movemaster goto pickup -f positions.yaml
  movemaster goto -f positions.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGoto,
}

var pathCmd = &cobra.Command{
	Use:   "path <name>",
	Short: "Run a named multi-point path from a positions file",
	Long: `Execute a path defined in a YAML positions file: every point is
stored into a controller path slot, then the whole range is executed
as one motion. Without a name, the known paths are listed.

Examples:
  movemaster path transfer -f positions.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(gotoCmd)
	rootCmd.AddCommand(pathCmd)

	gotoCmd.Flags().StringVarP(&positionsPath, "file", "f", "positions.yaml", "Positions file")
	gotoCmd.Flags().IntVar(&moveInterpolate, "interpolate", 0, "Number of interpolated intermediate points")
	gotoCmd.Flags().BoolVar(&moveCheck, "check", false, "Read back the controller error code afterwards")
	pathCmd.Flags().StringVarP(&positionsPath, "file", "f", "positions.yaml", "Positions file")
	pathCmd.Flags().BoolVar(&moveCheck, "check", false, "Read back the controller error code afterwards")
}

func runGoto(cmd *cobra.Command, args []string) error {
	pf, err := loadPositionsFile(positionsPath)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(pf.Positions) == 0 {
			fmt.Printf("No positions in %s\n", positionsPath)
			return nil
		}
		fmt.Printf("Positions in %s:\n", positionsPath)
		for _, name := range sortedKeys(pf.Positions) {
			fmt.Printf("  %-16s %s\n", name, pf.Positions[name].pose())
		}
		return nil
	}

	spec, ok := pf.Positions[args[0]]
	if !ok {
		return fmt.Errorf("no position %q in %s", args[0], positionsPath)
	}
	target := spec.pose()

	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := maybeChecked(ctx, r, func(ctx context.Context) error {
			return r.MoveTo(ctx, target, moveInterpolate)
		}); err != nil {
			return err
		}
		fmt.Printf("Moved to %s (%s)\n", args[0], target)
		return nil
	})
}

func runPath(cmd *cobra.Command, args []string) error {
	pf, err := loadPositionsFile(positionsPath)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(pf.Paths) == 0 {
			fmt.Printf("No paths in %s\n", positionsPath)
			return nil
		}
		fmt.Printf("Paths in %s:\n", positionsPath)
		for _, name := range sortedKeys(pf.Paths) {
			fmt.Printf("  %-16s %d points\n", name, len(pf.Paths[name]))
		}
		return nil
	}

	specs, ok := pf.Paths[args[0]]
	if !ok {
		return fmt.Errorf("no path %q in %s", args[0], positionsPath)
	}
	if len(specs) == 0 {
		return fmt.Errorf("path %q is empty", args[0])
	}
	points := make([]movemaster.Pose, len(specs))
	for i, s := range specs {
		points[i] = s.pose()
	}

	return withRobot(func(ctx context.Context, r *movemaster.Robot) error {
		if err := maybeChecked(ctx, r, func(ctx context.Context) error {
			return r.MovePath(ctx, points)
		}); err != nil {
			return err
		}
		fmt.Printf("Executed path %s (%d points)\n", args[0], len(points))
		return nil
	})
}
