package zones

import (
	"sort"

	"github.com/samber/lo"

	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
)

// ThermostatPair is the room-scoped pairing of a main thermostat with an
// optional floor-heating unit. Derived, never stored.
type ThermostatPair struct {
	RoomID         string
	RoomName       string
	MainThermostat models.Thermostat
	FloorHeat      *models.Thermostat
}

type ThermostatZone struct {
	ID          string
	Name        string
	Thermostats []models.Thermostat

	AverageCurrentTemp float64
	AverageSetPoint    float64
	DominantMode       string
	DominantFanMode    string
}

type LightingZone struct {
	ID     string
	Name   string
	Lights []models.Light

	AverageLevel float64
	OnCount      int
}

type MediaZone struct {
	ID         string
	Name       string
	MediaRooms []models.MediaRoom

	OnCount int
}

// areaPriorityOf returns the sort rank of an area name in the configured
// priority table; unrecognised names sort last.
func areaPriorityOf(areaPriority []string, areaName string) int {
	idx := lo.IndexOf(areaPriority, areaName)
	if idx < 0 {
		return len(areaPriority)
	}
	return idx
}

// ThermostatPairs groups thermostats by room (or by the enclosing virtual
// room when the room participates in one) and splits each group into main vs
// floor heat. A room with only a floor-heat unit promotes it to main. Sorted
// by area priority, then room name.
func ThermostatPairs(
	thermostats []models.Thermostat,
	rooms []models.Room,
	virtualRooms []models.VirtualRoom,
	areaPriority []string,
) []ThermostatPair {

	roomByID := lo.KeyBy(rooms, func(r models.Room) string { return r.ID })

	// rooms folded into a virtual room group under the virtual room's id
	groupForRoom := map[string]models.VirtualRoom{}
	for _, vr := range virtualRooms {
		for _, roomID := range vr.SourceRoomIDs {
			groupForRoom[roomID] = vr
		}
	}

	groups := lo.GroupBy(thermostats, func(t models.Thermostat) string {
		if vr, inVirtual := groupForRoom[t.RoomID]; inVirtual {
			return vr.ID
		}
		return t.RoomID
	})

	pairs := []ThermostatPair{}
	for groupID, members := range groups {

		pair := ThermostatPair{RoomID: groupID}
		if vr, isVirtual := lo.Find(virtualRooms, func(vr models.VirtualRoom) bool { return vr.ID == groupID }); isVirtual {
			pair.RoomName = vr.Name
		} else if room, found := roomByID[groupID]; found {
			pair.RoomName = room.Name
		}

		mains := lo.Filter(members, func(t models.Thermostat, _ int) bool { return !t.IsFloorHeat })
		floorHeats := lo.Filter(members, func(t models.Thermostat, _ int) bool { return t.IsFloorHeat })

		// at most one of each per grouping; extras are ignored deterministically
		sort.Slice(mains, func(i, j int) bool { return mains[i].ID < mains[j].ID })
		sort.Slice(floorHeats, func(i, j int) bool { return floorHeats[i].ID < floorHeats[j].ID })

		switch {
		case len(mains) > 0 && len(floorHeats) > 0:
			pair.MainThermostat = mains[0]
			fh := floorHeats[0]
			pair.FloorHeat = &fh
		case len(mains) > 0:
			pair.MainThermostat = mains[0]
		case len(floorHeats) > 0:
			// floor-heat-only room: the unit is promoted to main
			pair.MainThermostat = floorHeats[0]
		default:
			continue
		}

		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		pi := areaPriorityOf(areaPriority, areaNameForRoom(pairs[i].MainThermostat.RoomID, roomByID))
		pj := areaPriorityOf(areaPriority, areaNameForRoom(pairs[j].MainThermostat.RoomID, roomByID))
		if pi != pj {
			return pi < pj
		}
		return pairs[i].RoomName < pairs[j].RoomName
	})

	return pairs
}

func areaNameForRoom(roomID string, roomByID map[string]models.Room) string {
	if room, found := roomByID[roomID]; found {
		return room.AreaName
	}
	return ""
}

// roomAreaPredicate reports whether a room belongs to an area, either
// directly or through a virtual room assigned to that area.
func roomInArea(roomID string, areaID string, roomByID map[string]models.Room, virtualRooms []models.VirtualRoom) bool {
	if room, found := roomByID[roomID]; found && room.AreaID == areaID {
		return true
	}
	for _, vr := range virtualRooms {
		if vr.AreaID == areaID && lo.Contains(vr.SourceRoomIDs, roomID) {
			return true
		}
	}
	return false
}

// dominantMode returns the mode with the highest member count. Ties break to
// the mode listed first in the enumeration argument; a fixed, documented
// order rather than map iteration.
func dominantMode(values []string, enumeration []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := lo.CountValues(values)

	best := ""
	bestCount := -1
	for _, mode := range enumeration {
		if counts[mode] > bestCount {
			best = mode
			bestCount = counts[mode]
		}
	}
	if bestCount <= 0 {
		// nothing matched the known enumeration; fall back to the first value
		return values[0]
	}
	return best
}

var modeEnumeration = []string{constants.ModeOff, constants.ModeHeat, constants.ModeCool, constants.ModeAuto}
var fanModeEnumeration = []string{constants.FanModeAuto, constants.FanModeOn}

func buildThermostatZone(id string, name string, members []models.Thermostat) ThermostatZone {
	zone := ThermostatZone{ID: id, Name: name, Thermostats: members}

	// floor-heat units measure the slab, not the room, so they'd skew any
	// comfort average
	comfort := lo.Filter(members, func(t models.Thermostat, _ int) bool { return !t.IsFloorHeat })
	if len(comfort) > 0 {
		zone.AverageCurrentTemp = lo.SumBy(comfort, func(t models.Thermostat) float64 { return t.CurrentTemp }) / float64(len(comfort))
		zone.AverageSetPoint = lo.SumBy(comfort, func(t models.Thermostat) float64 { return t.HeatSetPoint }) / float64(len(comfort))
	}

	zone.DominantMode = dominantMode(lo.Map(members, func(t models.Thermostat, _ int) string { return t.Mode }), modeEnumeration)
	zone.DominantFanMode = dominantMode(lo.Map(members, func(t models.Thermostat, _ int) string { return t.FanMode }), fanModeEnumeration)

	return zone
}

// ThermostatZones synthesizes the whole-house zone first, then one zone per
// area (members resolved through the room->area mapping, including virtual
// rooms assigned to an area), then user-defined virtual-room zones. Empty
// zones are dropped, except whole-house which always appears.
func ThermostatZones(
	thermostats []models.Thermostat,
	rooms []models.Room,
	areas []models.Area,
	virtualRooms []models.VirtualRoom,
	areaPriority []string,
) []ThermostatZone {

	roomByID := lo.KeyBy(rooms, func(r models.Room) string { return r.ID })

	all := make([]models.Thermostat, len(thermostats))
	copy(all, thermostats)
	sortByAreaPriority(all, func(t models.Thermostat) (string, string) {
		return areaNameForRoom(t.RoomID, roomByID), t.Name
	}, areaPriority)

	result := []ThermostatZone{buildThermostatZone(constants.WholeHouseZoneID, constants.WholeHouseZoneName, all)}

	for _, area := range areas {
		members := lo.Filter(thermostats, func(t models.Thermostat, _ int) bool {
			return roomInArea(t.RoomID, area.ID, roomByID, virtualRooms)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildThermostatZone(area.ID, area.Name, members))
	}

	for _, vr := range virtualRooms {
		members := lo.Filter(thermostats, func(t models.Thermostat, _ int) bool {
			return lo.Contains(vr.SourceRoomIDs, t.RoomID)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildThermostatZone(vr.ID, vr.Name, members))
	}

	return result
}

func buildLightingZone(id string, name string, members []models.Light) LightingZone {
	zone := LightingZone{ID: id, Name: name, Lights: members}
	if len(members) > 0 {
		zone.AverageLevel = float64(lo.SumBy(members, func(l models.Light) int { return l.Level })) / float64(len(members))
	}
	zone.OnCount = lo.CountBy(members, func(l models.Light) bool { return l.IsOn })
	return zone
}

func LightingZones(
	lights []models.Light,
	rooms []models.Room,
	areas []models.Area,
	virtualRooms []models.VirtualRoom,
	areaPriority []string,
) []LightingZone {

	roomByID := lo.KeyBy(rooms, func(r models.Room) string { return r.ID })

	all := make([]models.Light, len(lights))
	copy(all, lights)
	sortByAreaPriority(all, func(l models.Light) (string, string) {
		return areaNameForRoom(l.RoomID, roomByID), l.Name
	}, areaPriority)

	result := []LightingZone{buildLightingZone(constants.WholeHouseZoneID, constants.WholeHouseZoneName, all)}

	for _, area := range areas {
		members := lo.Filter(lights, func(l models.Light, _ int) bool {
			return roomInArea(l.RoomID, area.ID, roomByID, virtualRooms)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildLightingZone(area.ID, area.Name, members))
	}

	for _, vr := range virtualRooms {
		members := lo.Filter(lights, func(l models.Light, _ int) bool {
			return lo.Contains(vr.SourceRoomIDs, l.RoomID)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildLightingZone(vr.ID, vr.Name, members))
	}

	return result
}

func buildMediaZone(id string, name string, members []models.MediaRoom) MediaZone {
	return MediaZone{
		ID:         id,
		Name:       name,
		MediaRooms: members,
		OnCount:    lo.CountBy(members, func(m models.MediaRoom) bool { return m.IsOn }),
	}
}

// MediaZones mirrors the other zone builders, with user-defined audio zones
// as the custom groupings appended last.
func MediaZones(
	mediaRooms []models.MediaRoom,
	rooms []models.Room,
	areas []models.Area,
	audioZones []models.AudioZone,
	areaPriority []string,
) []MediaZone {

	roomByID := lo.KeyBy(rooms, func(r models.Room) string { return r.ID })

	all := make([]models.MediaRoom, len(mediaRooms))
	copy(all, mediaRooms)
	sortByAreaPriority(all, func(m models.MediaRoom) (string, string) {
		return areaNameForRoom(m.RoomID, roomByID), m.Name
	}, areaPriority)

	result := []MediaZone{buildMediaZone(constants.WholeHouseZoneID, constants.WholeHouseZoneName, all)}

	for _, area := range areas {
		members := lo.Filter(mediaRooms, func(m models.MediaRoom, _ int) bool {
			return roomInArea(m.RoomID, area.ID, roomByID, nil)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildMediaZone(area.ID, area.Name, members))
	}

	for _, az := range audioZones {
		members := lo.Filter(mediaRooms, func(m models.MediaRoom, _ int) bool {
			return lo.Contains(az.MediaRoomIDs, m.ID)
		})
		if len(members) == 0 {
			continue
		}
		result = append(result, buildMediaZone(az.ID, az.Name, members))
	}

	return result
}

// sortByAreaPriority sorts devices by area priority then name, in place.
func sortByAreaPriority[T any](devices []T, keyOf func(T) (areaName string, name string), areaPriority []string) {
	sort.SliceStable(devices, func(i, j int) bool {
		areaI, nameI := keyOf(devices[i])
		areaJ, nameJ := keyOf(devices[j])
		pi := areaPriorityOf(areaPriority, areaI)
		pj := areaPriorityOf(areaPriority, areaJ)
		if pi != pj {
			return pi < pj
		}
		return nameI < nameJ
	})
}
