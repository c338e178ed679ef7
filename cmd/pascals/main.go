package main

import (
	"os"

	"github.com/pascals-lang/pascals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
