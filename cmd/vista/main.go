package main

import (
	"os"

	"github.com/clearview/vista/backend/cmd/vista/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
