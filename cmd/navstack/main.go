// Command navstack validates navigation configs and replays navigation
// scripts against them.
package main

import (
	"os"

	"github.com/go-drift/navstack/cmd/navstack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
