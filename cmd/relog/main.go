package main

import (
	"os"

	"github.com/relog-cli/relog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
