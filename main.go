package main

import (
	"os"

	"github.com/learnex/learnex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
