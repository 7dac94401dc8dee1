package mocks

import (
	"os"

	mock "github.com/stretchr/testify/mock"

	adapter "github.com/mouse-blink/suspect/internal/adapter"
	m "github.com/mouse-blink/suspect/internal/model"
)

// MockSourceFSAdapter is a mock implementation of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// MockSourceFSAdapter_Expecter provides typed expectation helpers.
type MockSourceFSAdapter_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation helper.
func (_m *MockSourceFSAdapter) EXPECT() *MockSourceFSAdapter_Expecter {
	return &MockSourceFSAdapter_Expecter{mock: &_m.Mock}
}

// CollectRuns provides a mock function.
func (_m *MockSourceFSAdapter) CollectRuns(failing, passing []m.Path) ([]m.Run, []m.Run, error) {
	ret := _m.Called(failing, passing)

	var relevant, irrelevant []m.Run
	if v := ret.Get(0); v != nil {
		relevant = v.([]m.Run)
	}

	if v := ret.Get(1); v != nil {
		irrelevant = v.([]m.Run)
	}

	return relevant, irrelevant, ret.Error(2)
}

// CollectRuns sets an expectation on CollectRuns.
func (_e *MockSourceFSAdapter_Expecter) CollectRuns(failing interface{}, passing interface{}) *mock.Call {
	return _e.mock.On("CollectRuns", failing, passing)
}

// Walk provides a mock function.
func (_m *MockSourceFSAdapter) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	ret := _m.Called(root, recursive, fn)

	return ret.Error(0)
}

// Walk sets an expectation on Walk.
func (_e *MockSourceFSAdapter_Expecter) Walk(root interface{}, recursive interface{}, fn interface{}) *mock.Call {
	return _e.mock.On("Walk", root, recursive, fn)
}

// FileInfo provides a mock function.
func (_m *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := _m.Called(path)

	var info os.FileInfo
	if v := ret.Get(0); v != nil {
		info = v.(os.FileInfo)
	}

	return info, ret.Error(1)
}

// FileInfo sets an expectation on FileInfo.
func (_e *MockSourceFSAdapter_Expecter) FileInfo(path interface{}) *mock.Call {
	return _e.mock.On("FileInfo", path)
}

// ReadFile provides a mock function.
func (_m *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := _m.Called(path)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte)
	}

	return data, ret.Error(1)
}

// ReadFile sets an expectation on ReadFile.
func (_e *MockSourceFSAdapter_Expecter) ReadFile(path interface{}) *mock.Call {
	return _e.mock.On("ReadFile", path)
}

// NewMockSourceFSAdapter creates a MockSourceFSAdapter and registers its expectations check with t.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	fsAdapter := &MockSourceFSAdapter{}
	fsAdapter.Mock.Test(t)

	t.Cleanup(func() { fsAdapter.AssertExpectations(t) })

	return fsAdapter
}
