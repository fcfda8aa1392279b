// SPDX-License-Identifier: MPL-2.0

package main

import cmd "depex-cli/cmd/depex"

func main() {
	cmd.Execute()
}
