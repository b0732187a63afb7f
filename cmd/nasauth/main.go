package main

import (
	"os"

	"nasauth/cmd/nasauth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
