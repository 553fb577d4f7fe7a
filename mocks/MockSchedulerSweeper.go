package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockSchedulerSweeper struct {
	mock.Mock
}

func NewMockSchedulerSweeper(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSchedulerSweeper {
	m := &MockSchedulerSweeper{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockSchedulerSweeper) RunSatisfactionSweep() {
	_m.Called()
}
