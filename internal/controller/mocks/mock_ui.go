// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	mock "github.com/stretchr/testify/mock"

	"github.com/scad-tools/flatscad/internal/controller"
	m "github.com/scad-tools/flatscad/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// Start provides a mock function with given fields: options.
func (mu *MockUI) Start(options ...controller.StartOption) error {
	ret := mu.Called(options)

	return ret.Error(0)
}

// Close provides a mock function.
func (mu *MockUI) Close() {
	mu.Called()
}

// DisplayInventory provides a mock function with given fields: inventories.
func (mu *MockUI) DisplayInventory(inventories []m.Inventory) error {
	ret := mu.Called(inventories)

	return ret.Error(0)
}

// DisplaySummary provides a mock function with given fields: results.
func (mu *MockUI) DisplaySummary(results []m.MergeResult) error {
	ret := mu.Called(results)

	return ret.Error(0)
}

// NewMockUI creates a new MockUI and registers a cleanup function asserting
// the mock's expectations.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mu := &MockUI{}
	mu.Mock.Test(t)

	t.Cleanup(func() { mu.AssertExpectations(t) })

	return mu
}
