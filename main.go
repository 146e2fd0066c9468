package main

import (
	"os"

	"github.com/chargewise/chargewise/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
