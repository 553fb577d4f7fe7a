package reconcile

import (
	"github.com/samber/lo"

	"github.com/wheelibin/homesync/internal/models"
)

// deriveAreaRooms repairs the area<->room relationship in both directions:
//   - areas reported without membership get their RoomIDs synthesized from each
//     room's own area reference
//   - rooms referenced by an area's membership but missing their own area
//     reference get it filled in
//   - rooms claiming an area that doesn't list them get appended to that
//     area's membership
//
// Run on every round so a mid-session room-to-area move is reflected even
// though area listings are normally sticky.
func deriveAreaRooms(areas []models.Area, rooms []models.Room) ([]models.Area, []models.Room) {

	outAreas := make([]models.Area, len(areas))
	copy(outAreas, areas)
	outRooms := make([]models.Room, len(rooms))
	copy(outRooms, rooms)

	areaIdx := map[string]int{}
	for i, area := range outAreas {
		areaIdx[area.ID] = i
	}

	// membership from room references where the gateway omitted it
	for i := range outAreas {
		if len(outAreas[i].RoomIDs) > 0 {
			continue
		}
		areaID := outAreas[i].ID
		outAreas[i].RoomIDs = lo.FilterMap(outRooms, func(room models.Room, _ int) (string, bool) {
			return room.ID, room.AreaID == areaID
		})
	}

	// room references from membership
	for i := range outAreas {
		for _, roomID := range outAreas[i].RoomIDs {
			for j := range outRooms {
				if outRooms[j].ID == roomID && outRooms[j].AreaID == "" {
					outRooms[j].AreaID = outAreas[i].ID
					outRooms[j].AreaName = outAreas[i].Name
				}
			}
		}
	}

	// membership from room references the gateway knows but didn't list
	for _, room := range outRooms {
		if room.AreaID == "" {
			continue
		}
		i, found := areaIdx[room.AreaID]
		if !found {
			continue
		}
		if !lo.Contains(outAreas[i].RoomIDs, room.ID) {
			outAreas[i].RoomIDs = append(outAreas[i].RoomIDs, room.ID)
		}
	}

	// fill in area names on rooms that only carried the id
	for j := range outRooms {
		if outRooms[j].AreaID == "" || outRooms[j].AreaName != "" {
			continue
		}
		if i, found := areaIdx[outRooms[j].AreaID]; found {
			outRooms[j].AreaName = outAreas[i].Name
		}
	}

	return outAreas, outRooms
}
