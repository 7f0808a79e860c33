// SPDX-License-Identifier: Apache-2.0
//
// movemaster - command-line control for Movemaster-class robot arms.

package main

import (
	"os"

	"github.com/max-hans/movemaster-lib/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
