// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/mouse-blink/suspect/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// MockWorkflow_Expecter provides typed expectation helpers.
type MockWorkflow_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation helper.
func (_m *MockWorkflow) EXPECT() *MockWorkflow_Expecter {
	return &MockWorkflow_Expecter{mock: &_m.Mock}
}

// Analyze provides a mock function.
func (_m *MockWorkflow) Analyze(ctx context.Context, args domain.AnalyzeArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Analyze sets an expectation on Analyze.
func (_e *MockWorkflow_Expecter) Analyze(ctx interface{}, args interface{}) *mock.Call {
	return _e.mock.On("Analyze", ctx, args)
}

// Watch provides a mock function.
func (_m *MockWorkflow) Watch(ctx context.Context, args domain.AnalyzeArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Watch sets an expectation on Watch.
func (_e *MockWorkflow_Expecter) Watch(ctx interface{}, args interface{}) *mock.Call {
	return _e.mock.On("Watch", ctx, args)
}

// Evaluate provides a mock function.
func (_m *MockWorkflow) Evaluate(args domain.EvaluateArgs) error {
	ret := _m.Called(args)

	return ret.Error(0)
}

// Evaluate sets an expectation on Evaluate.
func (_e *MockWorkflow_Expecter) Evaluate(args interface{}) *mock.Call {
	return _e.mock.On("Evaluate", args)
}

// View provides a mock function.
func (_m *MockWorkflow) View(args domain.ViewArgs) error {
	ret := _m.Called(args)

	return ret.Error(0)
}

// View sets an expectation on View.
func (_e *MockWorkflow_Expecter) View(args interface{}) *mock.Call {
	return _e.mock.On("View", args)
}

// Events provides a mock function.
func (_m *MockWorkflow) Events(args domain.EventsArgs) error {
	ret := _m.Called(args)

	return ret.Error(0)
}

// Events sets an expectation on Events.
func (_e *MockWorkflow_Expecter) Events(args interface{}) *mock.Call {
	return _e.mock.On("Events", args)
}

// NewMockWorkflow creates a MockWorkflow and registers its expectations check with t.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	wf := &MockWorkflow{}
	wf.Mock.Test(t)

	t.Cleanup(func() { wf.AssertExpectations(t) })

	return wf
}
