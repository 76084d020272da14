// Package main provides the entry point for the hibmigrate CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/hibmigrate/cmd/hibmigrate/commands"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
