// Package controller defines the UI boundary for rendering mutation testing
// progress and results.
package controller

import (
	"context"
	"os"

	m "github.com/movemut/movemut/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeTest
)

// StartOption is a functional option for Start.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	Mode  StartMode
	Total int
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.Mode = ModeEstimate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.Mode = ModeTest
	}
}

// WithTotal tells the UI how many mutants the run will resolve.
func WithTotal(total int) StartOption {
	return func(c *StartConfig) {
		c.Total = total
	}
}

// UI renders mutation testing progress and results. Implementations can be
// plain text or interactive.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	// Wait blocks until the user dismisses an interactive view; plain
	// implementations return immediately.
	Wait(ctx context.Context)

	DisplayConcurrencyInfo(ctx context.Context, workers, shardIndex, totalShards int)
	DisplayProgress(ctx context.Context, outcome m.Outcome, resolved, total int)
	DisplayEstimation(ctx context.Context, specs []m.MutantSpec)
	DisplayReport(ctx context.Context, report m.MutationReport)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
