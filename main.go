// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/packrgo/packr/cmd/packr"

func main() {
	cmd.Execute()
}
