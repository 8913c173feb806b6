package main

import (
	"os"

	"github.com/katalvlaran/lvlspec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
