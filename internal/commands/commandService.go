package commands

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/concurrency"
	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/store"
)

type gatewayCommander interface {
	SendCommand(category string, id string, action string, params map[string]any) error
}

type categoryRefresher interface {
	RefetchCategory(category string)
}

// CommandService applies every mutation optimistically: the store is written
// synchronously before the network round-trip, so a consumer reading the
// store right after issuing a command always observes the intended state.
// Results are booleans, never errors; failures degrade to "next poll corrects"
// or a category re-fetch depending on how predictable the side effects are.
type CommandService struct {
	logger    *log.Logger
	gateway   gatewayCommander
	store     *store.Store
	refresher categoryRefresher

	// pacing for zone-wide fan-out
	fanOutPace time.Duration
}

func NewCommandService(logger *log.Logger, gateway gatewayCommander, store *store.Store, refresher categoryRefresher) *CommandService {
	return &CommandService{
		logger:     logger,
		gateway:    gateway,
		store:      store,
		refresher:  refresher,
		fanOutPace: 100 * time.Millisecond,
	}
}

func clamp(v int, min int, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// lights

func (c *CommandService) SetLightLevel(id string, level int) bool {
	level = clamp(level, 0, constants.MaxLevel)

	c.store.UpdateLight(id, func(l *models.Light) {
		l.Level = level
		l.IsOn = level > 0
	})

	err := c.gateway.SendCommand(constants.CategoryLights, id, "setLevel", map[string]any{"level": level})
	if err != nil {
		// low-risk single-field write, leave the optimistic value for the
		// next poll to correct
		c.logger.Warn("set light level failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) SetLightOn(id string, on bool) bool {
	c.store.UpdateLight(id, func(l *models.Light) {
		l.IsOn = on
		if !on {
			l.Level = 0
		} else if l.Level == 0 {
			l.Level = constants.MaxLevel
		}
	})

	err := c.gateway.SendCommand(constants.CategoryLights, id, "setOn", map[string]any{"on": on})
	if err != nil {
		c.logger.Warn("set light on failed", "id", id, "err", err)
		return false
	}
	return true
}

// shades

func (c *CommandService) SetShadeLevel(id string, level int) bool {
	level = clamp(level, 0, constants.MaxLevel)

	c.store.UpdateShade(id, func(s *models.Shade) {
		s.Level = level
	})

	err := c.gateway.SendCommand(constants.CategoryShades, id, "setLevel", map[string]any{"level": level})
	if err != nil {
		c.logger.Warn("set shade level failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) OpenShade(id string) bool {
	return c.SetShadeLevel(id, constants.MaxLevel)
}

func (c *CommandService) CloseShade(id string) bool {
	return c.SetShadeLevel(id, 0)
}

// locks

func (c *CommandService) SetLock(id string, locked bool) bool {
	c.store.UpdateLock(id, func(l *models.DoorLock) {
		l.IsLocked = locked
	})

	action := "unlock"
	if locked {
		action = "lock"
	}
	err := c.gateway.SendCommand(constants.CategoryLocks, id, action, nil)
	if err != nil {
		c.logger.Warn("lock command failed", "id", id, "action", action, "err", err)
		return false
	}
	return true
}

// thermostats

// SetThermostatMode writes a single unit's mode. Pair coupling (forcing the
// floor heat off, or the main unit to heat) lives in the climate coordinator;
// this is the raw per-device operation it composes.
func (c *CommandService) SetThermostatMode(id string, mode string) bool {
	c.store.UpdateThermostat(id, func(t *models.Thermostat) {
		t.Mode = mode
	})

	err := c.gateway.SendCommand(constants.CategoryThermostats, id, "setMode", map[string]any{"mode": mode})
	if err != nil {
		c.logger.Warn("set thermostat mode failed", "id", id, "mode", mode, "err", err)
		return false
	}
	return true
}

// SetThermostatSetPoints updates either or both setpoints. Calling it with
// neither is a no-op signalled as failure, without a network call.
func (c *CommandService) SetThermostatSetPoints(id string, heat *float64, cool *float64) bool {
	if heat == nil && cool == nil {
		c.logger.Warn("set setpoints called with no values", "id", id)
		return false
	}

	c.store.UpdateThermostat(id, func(t *models.Thermostat) {
		if heat != nil {
			t.HeatSetPoint = *heat
		}
		if cool != nil {
			t.CoolSetPoint = *cool
		}
	})

	params := map[string]any{}
	if heat != nil {
		params["heatSetPoint"] = *heat
	}
	if cool != nil {
		params["coolSetPoint"] = *cool
	}

	err := c.gateway.SendCommand(constants.CategoryThermostats, id, "setSetPoints", params)
	if err != nil {
		c.logger.Warn("set setpoints failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) SetThermostatFanMode(id string, fanMode string) bool {
	c.store.UpdateThermostat(id, func(t *models.Thermostat) {
		t.FanMode = fanMode
	})

	err := c.gateway.SendCommand(constants.CategoryThermostats, id, "setFanMode", map[string]any{"fanMode": fanMode})
	if err != nil {
		c.logger.Warn("set fan mode failed", "id", id, "err", err)
		return false
	}
	return true
}

// scenes

// RecallScene is fire and forget: a scene touches an unknown set of devices,
// so there is no meaningful optimistic update; the next poll picks up the
// results.
func (c *CommandService) RecallScene(id string) bool {
	err := c.gateway.SendCommand(constants.CategoryScenes, id, "recall", nil)
	if err != nil {
		c.logger.Warn("scene recall failed", "id", id, "err", err)
		return false
	}
	return true
}

// media rooms
//
// the optimistic model cannot predict gateway-side consequences here (source
// selection powers rooms on, volume interacts with mute), so every media
// command re-fetches the category afterwards: on success to close the gap,
// on failure to roll the optimistic write back to ground truth

func (c *CommandService) SetMediaPower(id string, on bool) bool {
	c.store.UpdateMediaRoom(id, func(m *models.MediaRoom) {
		m.IsOn = on
	})

	err := c.gateway.SendCommand(constants.CategoryMediaRooms, id, "setPower", map[string]any{"on": on})
	c.refresher.RefetchCategory(constants.CategoryMediaRooms)
	if err != nil {
		c.logger.Warn("media power command failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) SetMediaVolume(id string, volume int) bool {
	volume = clamp(volume, constants.MinVolume, constants.MaxVolume)

	c.store.UpdateMediaRoom(id, func(m *models.MediaRoom) {
		m.Volume = volume
	})

	err := c.gateway.SendCommand(constants.CategoryMediaRooms, id, "setVolume", map[string]any{"volume": volume})
	c.refresher.RefetchCategory(constants.CategoryMediaRooms)
	if err != nil {
		c.logger.Warn("media volume command failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) SetMediaMute(id string, muted bool) bool {
	c.store.UpdateMediaRoom(id, func(m *models.MediaRoom) {
		m.IsMuted = muted
	})

	err := c.gateway.SendCommand(constants.CategoryMediaRooms, id, "setMute", map[string]any{"muted": muted})
	c.refresher.RefetchCategory(constants.CategoryMediaRooms)
	if err != nil {
		c.logger.Warn("media mute command failed", "id", id, "err", err)
		return false
	}
	return true
}

func (c *CommandService) SelectMediaSource(id string, sourceID string) bool {
	c.store.UpdateMediaRoom(id, func(m *models.MediaRoom) {
		m.SourceID = sourceID
		// selecting a source also powers the room on gateway-side
		m.IsOn = true
	})

	err := c.gateway.SendCommand(constants.CategoryMediaRooms, id, "selectSource", map[string]any{"sourceId": sourceID})
	c.refresher.RefetchCategory(constants.CategoryMediaRooms)
	if err != nil {
		c.logger.Warn("media source command failed", "id", id, "err", err)
		return false
	}
	return true
}

// zone-wide fan-out

// SetZoneLightLevel applies a level to every light in a zone, paced so the
// gateway isn't hit with a burst. Returns true when every light accepted.
func (c *CommandService) SetZoneLightLevel(lightIDs []string, level int) bool {
	worker := concurrency.NewThrottledWorker(c.fanOutPace, func(id string) error {
		if !c.SetLightLevel(id, level) {
			return errCommandRejected
		}
		return nil
	})
	return worker.Run(lightIDs) == len(lightIDs)
}

// SetZoneHeatSetPoint applies a heat setpoint to every thermostat in a zone.
func (c *CommandService) SetZoneHeatSetPoint(thermostatIDs []string, heatSetPoint float64) bool {
	worker := concurrency.NewThrottledWorker(c.fanOutPace, func(id string) error {
		sp := heatSetPoint
		if !c.SetThermostatSetPoints(id, &sp, nil) {
			return errCommandRejected
		}
		return nil
	})
	return worker.Run(thermostatIDs) == len(thermostatIDs)
}
