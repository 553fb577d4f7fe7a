package models

import "time"

type Light struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	// 0-65535
	Level int  `json:"level"`
	IsOn  bool `json:"isOn"`
}

type Shade struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	// 0-65535, 0 = fully closed
	Level int `json:"level"`
}

type Thermostat struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`

	// off | heat | cool | auto
	Mode         string  `json:"mode"`
	HeatSetPoint float64 `json:"heatSetPoint"`
	CoolSetPoint float64 `json:"coolSetPoint"`
	CurrentTemp  float64 `json:"currentTemp"`
	// auto | on
	FanMode string `json:"fanMode"`

	// true for auxiliary floor-heating units paired with a room's main thermostat
	IsFloorHeat bool `json:"isFloorHeat"`
}

type DoorLock struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	Name     string `json:"name"`
	IsLocked bool   `json:"isLocked"`
}

type Sensor struct {
	ID     string  `json:"id"`
	RoomID string  `json:"roomId"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
}

type MediaRoom struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	Name     string `json:"name"`
	IsOn     bool   `json:"isOn"`
	Volume   int    `json:"volume"`
	IsMuted  bool   `json:"isMuted"`
	SourceID string `json:"sourceId"`
}

type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AreaID   string `json:"areaId"`
	AreaName string `json:"areaName"`
}

type Area struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	RoomIDs []string `json:"roomIds"`
}

// a user-defined grouping of two or more rooms that behaves as one room
type VirtualRoom struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AreaID        string   `json:"areaId"`
	SourceRoomIDs []string `json:"sourceRoomIds"`
}

// a user-defined grouping of media rooms for whole-zone audio
type AudioZone struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MediaRoomIDs []string `json:"mediaRoomIds"`
}

type Scene struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// PersistedSnapshot is the subset of store state that survives a restart.
// Transient metadata (loading flag, error) has no fields here and never
// reaches the cache.
type PersistedSnapshot struct {
	Lights       []Light       `json:"lights"`
	Shades       []Shade       `json:"shades"`
	Thermostats  []Thermostat  `json:"thermostats"`
	Locks        []DoorLock    `json:"locks"`
	Sensors      []Sensor      `json:"sensors"`
	MediaRooms   []MediaRoom   `json:"mediaRooms"`
	Rooms        []Room        `json:"rooms"`
	Areas        []Area        `json:"areas"`
	VirtualRooms []VirtualRoom `json:"virtualRooms"`
	AudioZones   []AudioZone   `json:"audioZones"`
	Scenes       []Scene       `json:"scenes"`
	LastUpdated  *time.Time    `json:"lastUpdated"`
}
