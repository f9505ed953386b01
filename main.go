package main

import (
	"os"

	"lumen.build/cli/internal/interfaces/cli"
	"lumen.build/cli/internal/interfaces/di"
)

var version = "dev" // overridden by ldflags

func main() {
	container, err := di.NewContainer(version)
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
	cli.Execute(container.Service, os.Args[1:])
}
