package main

import (
	"os"

	"github.com/joseph-ayodele/orders-intake/cmd/orders/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
