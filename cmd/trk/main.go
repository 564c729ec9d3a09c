package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cexll/trk/internal/cli"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
