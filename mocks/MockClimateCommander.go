package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockClimateCommander struct {
	mock.Mock
}

func NewMockClimateCommander(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClimateCommander {
	m := &MockClimateCommander{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockClimateCommander) SetThermostatMode(id string, mode string) bool {
	ret := _m.Called(id, mode)
	return ret.Bool(0)
}
