package main

import (
	"os"

	"github.com/onatvural/onboarding-demo/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
