package main

import (
	"os"

	"github.com/solatis/regosift/cmd/regosift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
