// Command bujatime repairs blog markdown, validates the content catalog, and
// publishes the static artifacts of the site.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCommand(newApp(os.Stdin, os.Stdout, os.Stderr))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
