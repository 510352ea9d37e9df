package main

import (
	"os"

	"github.com/comigor/bridge-go/cmd/bridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
