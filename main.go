package main

import (
	"os"

	"github.com/voltsched/greencharge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
