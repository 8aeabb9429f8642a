package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/helmsman-ai/helmsman/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional .env file for API keys and endpoints.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
