// Package tui provides an interactive terminal user interface for memo.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"errors"

	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// ErrMissingMemoryService is returned when the memory service is not provided.
var ErrMissingMemoryService = errors.New("tui: memory service is required")

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Memory provides document storage and semantic search.
	Memory driving.MemoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Memory == nil {
		return ErrMissingMemoryService
	}
	return nil
}
