package main

import (
	"os"

	"github.com/SKuytov/SVP/cmd/svp/commands"
)

// main is the entry point for the SVP CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/svp [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
