package main

import (
	"os"

	"moneytrack/internal/cli"
	"moneytrack/internal/commands"
)

func main() {
	cli.LoadEnvFile()
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
