// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	mock "github.com/stretchr/testify/mock"

	m "github.com/mouse-blink/suspect/internal/model"
)

// MockReportStore is a mock implementation of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// MockReportStore_Expecter provides typed expectation helpers.
type MockReportStore_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation helper.
func (_m *MockReportStore) EXPECT() *MockReportStore_Expecter {
	return &MockReportStore_Expecter{mock: &_m.Mock}
}

// SaveReport provides a mock function.
func (_m *MockReportStore) SaveReport(report m.Report) (m.Report, error) {
	ret := _m.Called(report)

	if rf, ok := ret.Get(0).(func(m.Report) (m.Report, error)); ok {
		return rf(report)
	}

	return ret.Get(0).(m.Report), ret.Error(1)
}

// SaveReport sets an expectation on SaveReport.
func (_e *MockReportStore_Expecter) SaveReport(report interface{}) *mock.Call {
	return _e.mock.On("SaveReport", report)
}

// LoadReport provides a mock function.
func (_m *MockReportStore) LoadReport(id string) (m.Report, error) {
	ret := _m.Called(id)

	return ret.Get(0).(m.Report), ret.Error(1)
}

// LoadReport sets an expectation on LoadReport.
func (_e *MockReportStore_Expecter) LoadReport(id interface{}) *mock.Call {
	return _e.mock.On("LoadReport", id)
}

// LatestReport provides a mock function.
func (_m *MockReportStore) LatestReport() (m.Report, error) {
	ret := _m.Called()

	return ret.Get(0).(m.Report), ret.Error(1)
}

// LatestReport sets an expectation on LatestReport.
func (_e *MockReportStore_Expecter) LatestReport() *mock.Call {
	return _e.mock.On("LatestReport")
}

// ListReports provides a mock function.
func (_m *MockReportStore) ListReports() ([]m.ReportSummary, error) {
	ret := _m.Called()

	var summaries []m.ReportSummary
	if v := ret.Get(0); v != nil {
		summaries = v.([]m.ReportSummary)
	}

	return summaries, ret.Error(1)
}

// ListReports sets an expectation on ListReports.
func (_e *MockReportStore_Expecter) ListReports() *mock.Call {
	return _e.mock.On("ListReports")
}

// Close provides a mock function.
func (_m *MockReportStore) Close() error {
	ret := _m.Called()

	return ret.Error(0)
}

// Close sets an expectation on Close.
func (_e *MockReportStore_Expecter) Close() *mock.Call {
	return _e.mock.On("Close")
}

// NewMockReportStore creates a MockReportStore and registers its expectations check with t.
func NewMockReportStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportStore {
	store := &MockReportStore{}
	store.Mock.Test(t)

	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}
