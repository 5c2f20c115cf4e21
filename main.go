package main

import (
	"os"

	"github.com/ozstats/labourpipe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
