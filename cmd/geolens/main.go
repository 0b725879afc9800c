package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/AI2HU/geolens/internal/cli"
)

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
