package mocks

import (
	"github.com/benmeehan/nav-handoff/pkg/handoff"
	"github.com/benmeehan/nav-handoff/pkg/platform"
	"github.com/stretchr/testify/mock"
)

// MockSource is a mock implementation of handoff.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) HasActiveHandle() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSource) GetDataObject() (handoff.DataObject, error) {
	args := m.Called()
	data, _ := args.Get(0).(handoff.DataObject)
	return data, args.Error(1)
}

// MockDataObject is a mock implementation of handoff.DataObject
type MockDataObject struct {
	mock.Mock
}

func (m *MockDataObject) ReadField(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

// MockPermissionRequester is a mock implementation of platform.PermissionRequester
type MockPermissionRequester struct {
	mock.Mock
}

func (m *MockPermissionRequester) HasPermission(p platform.Permission) bool {
	args := m.Called(p)
	return args.Bool(0)
}

func (m *MockPermissionRequester) RequestPermission(p platform.Permission) error {
	args := m.Called(p)
	return args.Error(0)
}
