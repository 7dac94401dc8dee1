package mocks

import (
	mock "github.com/stretchr/testify/mock"

	m "github.com/mouse-blink/suspect/internal/model"
)

// MockWatcher is a mock implementation of adapter.Watcher.
type MockWatcher struct {
	mock.Mock
}

// MockWatcher_Expecter provides typed expectation helpers.
type MockWatcher_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation helper.
func (_m *MockWatcher) EXPECT() *MockWatcher_Expecter {
	return &MockWatcher_Expecter{mock: &_m.Mock}
}

// Watch provides a mock function. A Run hook on the expectation can invoke
// onChange to simulate file changes.
func (_m *MockWatcher) Watch(dirs []m.Path, onChange func(paths []string)) error {
	ret := _m.Called(dirs, onChange)

	return ret.Error(0)
}

// Watch sets an expectation on Watch.
func (_e *MockWatcher_Expecter) Watch(dirs interface{}, onChange interface{}) *mock.Call {
	return _e.mock.On("Watch", dirs, onChange)
}

// Stop provides a mock function.
func (_m *MockWatcher) Stop() error {
	ret := _m.Called()

	return ret.Error(0)
}

// Stop sets an expectation on Stop.
func (_e *MockWatcher_Expecter) Stop() *mock.Call {
	return _e.mock.On("Stop")
}

// NewMockWatcher creates a MockWatcher and registers its expectations check with t.
func NewMockWatcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWatcher {
	watcher := &MockWatcher{}
	watcher.Mock.Test(t)

	t.Cleanup(func() { watcher.AssertExpectations(t) })

	return watcher
}
