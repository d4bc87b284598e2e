package main

import (
	"os"

	"ingrediguard/cmd/ingrediguard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
