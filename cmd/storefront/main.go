// Command storefront browses the catalog and opens prefilled conversations
// with the seller from a terminal.
package main

import (
	"os"
)

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}
