package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockCommandsRefresher struct {
	mock.Mock
}

func NewMockCommandsRefresher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCommandsRefresher {
	m := &MockCommandsRefresher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockCommandsRefresher) RefetchCategory(category string) {
	_m.Called(category)
}
