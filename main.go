// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/coresolve/coresolve/cmd/coresolve"

func main() {
	cmd.Execute()
}
