// Package main provides the gardend service and its maintenance commands.
package main

import (
	"fmt"
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gardend:", err)
		os.Exit(1)
	}
}
