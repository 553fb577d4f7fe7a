package constants

// thermostat modes as reported by the gateway
const ModeOff = "off"
const ModeHeat = "heat"
const ModeCool = "cool"
const ModeAuto = "auto"

const FanModeAuto = "auto"
const FanModeOn = "on"

// device categories (the gateway exposes one endpoint per category)
const CategoryAreas = "areas"
const CategoryRooms = "rooms"
const CategoryLights = "lights"
const CategoryShades = "shades"
const CategoryThermostats = "thermostats"
const CategoryLocks = "locks"
const CategorySensors = "sensors"
const CategoryMediaRooms = "mediarooms"
const CategoryScenes = "scenes"
const CategoryVirtualRooms = "virtualrooms"
const CategoryAudioZones = "audiozones"

// light/shade levels are 16 bit on the wire
const MaxLevel = 65535

const MaxVolume = 100
const MinVolume = 0

const WholeHouseZoneID = "whole-house"
const WholeHouseZoneName = "Whole House"

// terminal error set once a credential refresh has been attempted and failed
const ErrSessionExpired = "session expired"
