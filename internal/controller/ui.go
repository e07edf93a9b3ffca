// Package controller provides output front-ends for flattening results.
package controller

import (
	m "github.com/scad-tools/flatscad/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeFlatten
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to inventory listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithFlattenMode sets the UI to merge summary mode.
func WithFlattenMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeFlatten
	}
}

// UI defines the interface for presenting discovery inventories and merge
// summaries. Implementations can use different output methods (plain text,
// interactive TUI).
type UI interface {
	Start(options ...StartOption) error
	Close()
	DisplayInventory(inventories []m.Inventory) error
	DisplaySummary(results []m.MergeResult) error
}
