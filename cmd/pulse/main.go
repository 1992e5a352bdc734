package main

import (
	"os"

	"github.com/kkusima/commitpulse/cmd/pulse/commands"
)

// main is the entry point for the commitpulse CLI:
// go run ./cmd/pulse [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
