package main

import (
	"os"

	"github.com/cogmodel/declmem/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
