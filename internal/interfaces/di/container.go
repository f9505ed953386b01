// Package di wires the application dependencies together.
package di

import (
	"fmt"
	"os"

	"lumen.build/cli/internal/interfaces/cli"
	"lumen.build/cli/internal/logging"
	"lumen.build/cli/internal/service"
)

// Container holds the application's top-level dependencies.
type Container struct {
	Logger  *logging.Console
	Service *service.Service
}

// NewContainer builds the production wiring: console logger, real
// environment store, module resolver table, cobra dispatcher.
func NewContainer(version string) (*Container, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	logger := logging.NewConsole(os.Getenv("LUMEN_DEBUG") != "")
	svc := service.New(service.Options{
		Cwd:        cwd,
		Version:    version,
		Logger:     logger,
		Dispatcher: cli.NewBridge(),
	})

	return &Container{Logger: logger, Service: svc}, nil
}
