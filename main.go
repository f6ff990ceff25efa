// SPDX-License-Identifier: MPL-2.0

// pypack packages Python source code into PyPI-ready distributions.
package main

import cmd "pypack-cli/cmd/pypack"

func main() {
	cmd.Execute()
}
