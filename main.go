// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/sourcery-build/cmd/sourcery-build"

func main() {
	cmd.Execute()
}
