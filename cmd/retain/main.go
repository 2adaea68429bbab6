package main

import (
	"os"

	"github.com/retainhq/retain/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
