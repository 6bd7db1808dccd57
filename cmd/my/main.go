package main

import (
	"os"

	"my/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
