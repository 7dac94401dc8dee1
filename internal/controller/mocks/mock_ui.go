// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	mock "github.com/stretchr/testify/mock"

	controller "github.com/mouse-blink/suspect/internal/controller"
	m "github.com/mouse-blink/suspect/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// MockUI_Expecter provides typed expectation helpers.
type MockUI_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation helper.
func (_m *MockUI) EXPECT() *MockUI_Expecter {
	return &MockUI_Expecter{mock: &_m.Mock}
}

// Start provides a mock function.
func (_m *MockUI) Start(options ...controller.StartOption) error {
	_va := make([]interface{}, len(options))
	for _i := range options {
		_va[_i] = options[_i]
	}

	ret := _m.Called(_va...)

	if rf, ok := ret.Get(0).(func(...controller.StartOption) error); ok {
		return rf(options...)
	}

	return ret.Error(0)
}

// Start sets an expectation on Start.
func (_e *MockUI_Expecter) Start(options ...interface{}) *mock.Call {
	return _e.mock.On("Start", options...)
}

// Close provides a mock function.
func (_m *MockUI) Close() {
	_m.Called()
}

// Close sets an expectation on Close.
func (_e *MockUI_Expecter) Close() *mock.Call {
	return _e.mock.On("Close")
}

// Wait provides a mock function.
func (_m *MockUI) Wait() {
	_m.Called()
}

// Wait sets an expectation on Wait.
func (_e *MockUI_Expecter) Wait() *mock.Call {
	return _e.mock.On("Wait")
}

// DisplayReport provides a mock function.
func (_m *MockUI) DisplayReport(report m.Report) error {
	ret := _m.Called(report)

	return ret.Error(0)
}

// DisplayReport sets an expectation on DisplayReport.
func (_e *MockUI_Expecter) DisplayReport(report interface{}) *mock.Call {
	return _e.mock.On("DisplayReport", report)
}

// DisplayEvaluations provides a mock function.
func (_m *MockUI) DisplayEvaluations(report m.Report, evaluations []m.Evaluation) error {
	ret := _m.Called(report, evaluations)

	return ret.Error(0)
}

// DisplayEvaluations sets an expectation on DisplayEvaluations.
func (_e *MockUI_Expecter) DisplayEvaluations(report interface{}, evaluations interface{}) *mock.Call {
	return _e.mock.On("DisplayEvaluations", report, evaluations)
}

// DisplayReports provides a mock function.
func (_m *MockUI) DisplayReports(summaries []m.ReportSummary) error {
	ret := _m.Called(summaries)

	return ret.Error(0)
}

// DisplayReports sets an expectation on DisplayReports.
func (_e *MockUI_Expecter) DisplayReports(summaries interface{}) *mock.Call {
	return _e.mock.On("DisplayReports", summaries)
}

// DisplayEvents provides a mock function.
func (_m *MockUI) DisplayEvents(path m.Path, events []m.Event) error {
	ret := _m.Called(path, events)

	return ret.Error(0)
}

// DisplayEvents sets an expectation on DisplayEvents.
func (_e *MockUI_Expecter) DisplayEvents(path interface{}, events interface{}) *mock.Call {
	return _e.mock.On("DisplayEvents", path, events)
}

// DisplayWatching provides a mock function.
func (_m *MockUI) DisplayWatching(dirs []m.Path) {
	_m.Called(dirs)
}

// DisplayWatching sets an expectation on DisplayWatching.
func (_e *MockUI_Expecter) DisplayWatching(dirs interface{}) *mock.Call {
	return _e.mock.On("DisplayWatching", dirs)
}

// NewMockUI creates a MockUI and registers its expectations check with t.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}
