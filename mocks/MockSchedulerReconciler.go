package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockSchedulerReconciler struct {
	mock.Mock
}

func NewMockSchedulerReconciler(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSchedulerReconciler {
	m := &MockSchedulerReconciler{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockSchedulerReconciler) Reconcile(isRetry bool, silent bool) {
	_m.Called(isRetry, silent)
}
