// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	mock "github.com/stretchr/testify/mock"

	"github.com/scad-tools/flatscad/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// List provides a mock function with given fields: args.
func (mw *MockWorkflow) List(args domain.ListArgs) error {
	ret := mw.Called(args)

	return ret.Error(0)
}

// Flatten provides a mock function with given fields: args.
func (mw *MockWorkflow) Flatten(args domain.FlattenArgs) error {
	ret := mw.Called(args)

	return ret.Error(0)
}

// NewMockWorkflow creates a new MockWorkflow and registers a cleanup function
// asserting the mock's expectations.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mw := &MockWorkflow{}
	mw.Mock.Test(t)

	t.Cleanup(func() { mw.AssertExpectations(t) })

	return mw
}
