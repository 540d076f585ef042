package main

import (
	"fmt"
	"os"

	"docverify/internal/cli"
	"docverify/internal/domain"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(domain.ExitCode(err))
	}
}
