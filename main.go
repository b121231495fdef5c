package main

import (
	"os"

	"github.com/ziadkadry99/edugen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
