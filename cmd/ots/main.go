// ots reconstructs, renders, and verifies SDAX schematic projects.
package main

import "github.com/OpenTraceLab/OpenTraceSDAX/cmd/ots/cmd"

func main() {
	cmd.Execute()
}
