package main

import (
	"os"

	"github.com/podsum/podsum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
