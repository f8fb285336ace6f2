// Package main provides the entry point for the docuseek CLI.
package main

import (
	"os"

	"github.com/docuseek/docuseek/cmd/docuseek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
