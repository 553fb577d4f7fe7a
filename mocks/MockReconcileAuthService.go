package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockReconcileAuthService struct {
	mock.Mock
}

func NewMockReconcileAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReconcileAuthService {
	m := &MockReconcileAuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockReconcileAuthService) RefreshAuth() bool {
	ret := _m.Called()
	return ret.Bool(0)
}
