package store

import (
	"bytes"
	"encoding/json"

	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
)

// HasChanged reports whether fresh differs from current: lengths are compared
// first, then a serialized deep comparison. Used before category writes to
// suppress redundant store updates under fast polling.
func HasChanged[T any](current []T, fresh []T) bool {
	if len(current) != len(fresh) {
		return true
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return true
	}
	freshJSON, err := json.Marshal(fresh)
	if err != nil {
		return true
	}
	return !bytes.Equal(currentJSON, freshJSON)
}

// mergeThermostatSetPoints applies the setpoint preservation rule to a freshly
// fetched thermostat list. The gateway reports a defaulted heat setpoint equal
// to the current temperature when a thermostat is off; if we previously knew a
// real setpoint, keep it so the target temperature doesn't silently reset to
// ambient every time the unit is switched off.
func mergeThermostatSetPoints(current []models.Thermostat, fresh []models.Thermostat) []models.Thermostat {

	byID := map[string]models.Thermostat{}
	for _, t := range current {
		byID[t.ID] = t
	}

	merged := make([]models.Thermostat, len(fresh))
	copy(merged, fresh)

	for i := range merged {
		prev, known := byID[merged[i].ID]
		if !known {
			continue
		}
		defaulted := merged[i].Mode == constants.ModeOff &&
			merged[i].HeatSetPoint == merged[i].CurrentTemp &&
			prev.HeatSetPoint != merged[i].CurrentTemp
		if defaulted {
			merged[i].HeatSetPoint = prev.HeatSetPoint
		}
	}

	return merged
}
