package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockCommandsGateway struct {
	mock.Mock
}

func NewMockCommandsGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommandsGateway {
	m := &MockCommandsGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockCommandsGateway) SendCommand(category string, id string, action string, params map[string]any) error {
	ret := _m.Called(category, id, action, params)
	return ret.Error(0)
}
