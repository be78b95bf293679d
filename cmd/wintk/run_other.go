//go:build !linux

package main

import (
	"fmt"
	"os"
)

func runDemo([]string) int {
	fmt.Fprintln(os.Stderr, "wintk run requires an X11 display on Linux")
	return 1
}

func runMonitors([]string) int {
	fmt.Fprintln(os.Stderr, "wintk monitors requires an X11 display on Linux")
	return 1
}
