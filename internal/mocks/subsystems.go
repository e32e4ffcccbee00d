package mocks

import (
	"github.com/benmeehan/nav-handoff/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockWaypointSubsystem is a mock implementation of services.WaypointSubsystem
type MockWaypointSubsystem struct {
	mock.Mock
}

func (m *MockWaypointSubsystem) InitializeWaypoints(buildingName string) {
	m.Called(buildingName)
}

// MockNavigationSubsystem is a mock implementation of services.NavigationSubsystem
type MockNavigationSubsystem struct {
	mock.Mock
}

func (m *MockNavigationSubsystem) StartNavigation(destination models.Destination) {
	m.Called(destination)
}

// MockHostReturnSignal is a mock implementation of services.HostReturnSignal
type MockHostReturnSignal struct {
	mock.Mock
}

func (m *MockHostReturnSignal) RequestReturnToHost() error {
	args := m.Called()
	return args.Error(0)
}

// MockPresenter is a mock implementation of services.Presenter
type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) Present(destination models.Destination) {
	m.Called(destination)
}
