package main

import (
	"os"

	"github.com/inovspin/inovspin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
