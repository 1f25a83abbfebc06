package scheduler

import (
	"context"
)

// Process represents a process that can be scheduled
type Process interface {
	// Name returns the name of the process
	Name() string

	// Execute runs one iteration of the process
	Execute(ctx context.Context) error
}
