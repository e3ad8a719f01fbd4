package main

import (
	"os"

	"github.com/wonny/factorlab/cmd/factors/commands"
)

// main is the entry point for the factorlab CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/factors [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
