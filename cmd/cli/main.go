package main

import (
	"github.com/soruforum/soruforum/cmd/cli/root"

	// Subcommands register themselves with the root command.
	_ "github.com/soruforum/soruforum/cmd/cli/users"
)

func main() {
	root.Execute()
}
