package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/wheelibin/homesync/internal/models"
)

type MockStoreSnapshotRepo struct {
	mock.Mock
}

func NewMockStoreSnapshotRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoreSnapshotRepo {
	m := &MockStoreSnapshotRepo{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockStoreSnapshotRepo) Save(snapshot models.PersistedSnapshot) error {
	ret := _m.Called(snapshot)
	return ret.Error(0)
}

func (_m *MockStoreSnapshotRepo) Load() (*models.PersistedSnapshot, error) {
	ret := _m.Called()
	var r0 *models.PersistedSnapshot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PersistedSnapshot)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoreSnapshotRepo) Clear() error {
	ret := _m.Called()
	return ret.Error(0)
}
