package main

import (
	"os"

	"github.com/jerryli27/coffee-project/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
