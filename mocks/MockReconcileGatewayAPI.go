package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/wheelibin/homesync/internal/models"
)

type MockReconcileGatewayAPI struct {
	mock.Mock
}

func NewMockReconcileGatewayAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReconcileGatewayAPI {
	m := &MockReconcileGatewayAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockReconcileGatewayAPI) GetAreas() ([]models.Area, error) {
	ret := _m.Called()
	var r0 []models.Area
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Area)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetRooms() ([]models.Room, error) {
	ret := _m.Called()
	var r0 []models.Room
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Room)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetLights() ([]models.Light, error) {
	ret := _m.Called()
	var r0 []models.Light
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Light)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetShades() ([]models.Shade, error) {
	ret := _m.Called()
	var r0 []models.Shade
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Shade)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetThermostats() ([]models.Thermostat, error) {
	ret := _m.Called()
	var r0 []models.Thermostat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Thermostat)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetLocks() ([]models.DoorLock, error) {
	ret := _m.Called()
	var r0 []models.DoorLock
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.DoorLock)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetSensors() ([]models.Sensor, error) {
	ret := _m.Called()
	var r0 []models.Sensor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Sensor)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetMediaRooms() ([]models.MediaRoom, error) {
	ret := _m.Called()
	var r0 []models.MediaRoom
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.MediaRoom)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetScenes() ([]models.Scene, error) {
	ret := _m.Called()
	var r0 []models.Scene
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Scene)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetVirtualRooms() ([]models.VirtualRoom, error) {
	ret := _m.Called()
	var r0 []models.VirtualRoom
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.VirtualRoom)
	}
	return r0, ret.Error(1)
}

func (_m *MockReconcileGatewayAPI) GetAudioZones() ([]models.AudioZone, error) {
	ret := _m.Called()
	var r0 []models.AudioZone
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.AudioZone)
	}
	return r0, ret.Error(1)
}
