package simulate

import (
	"fmt"
	"os"

	"github.com/hirelens/hirelens/pkg/logger"
)

// SetupLogging initializes the global logger for the simulator.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`HireLens Session Simulator
==========================

Drives scripted candidate sessions against a running HireLens service
and checks the scored profiles against each script's archetype.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to simulate (default 9)
  -workers int
        Number of concurrent sessions (default 3)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Seed for deterministic scripts (default 1)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # A larger run against a non-default address
  go run cmd/simulate/main.go -sessions 60 -workers 10 -url http://localhost:8080
`)
}
